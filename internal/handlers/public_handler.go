package handlers

import (
	"github.com/gin-gonic/gin"

	schedule "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	ucschedule "github.com/mediconsult/consult-scheduler/internal/usecase/schedule"
)

// PublicHandler exposes the read surface patients see when picking a
// time: materialized slots that still have capacity.
type PublicHandler struct {
	getSlotsUC *ucschedule.GetSlots
}

func NewPublicHandler(getSlotsUC *ucschedule.GetSlots) *PublicHandler {
	return &PublicHandler{getSlotsUC: getSlotsUC}
}

func (h *PublicHandler) ListOpenSlots(c *gin.Context) {
	doctorID, ok := idParam(c, "id")
	if !ok {
		return
	}

	from, to, ok := dateRangeQuery(c)
	if !ok {
		return
	}

	slots, err := h.getSlotsUC.Execute(c.Request.Context(), doctorID, from, to)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	open := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		if schedule.StateOf(&s) != schedule.StateFull {
			open = append(open, toSlotResponse(s))
		}
	}

	c.JSON(200, gin.H{
		"doctor_id": doctorID,
		"data":      open,
		"total":     len(open),
	})
}
