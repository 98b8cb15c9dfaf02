package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mediconsult/consult-scheduler/internal/httperr"
	"github.com/mediconsult/consult-scheduler/internal/httpresp"
	ucbooking "github.com/mediconsult/consult-scheduler/internal/usecase/booking"
)

// BookingHandler serves the patient-facing reservation endpoints. The
// patient reference comes from the external auth collaborator; this
// service never resolves it.
type BookingHandler struct {
	reserveUC *ucbooking.Reserve
	cancelUC  *ucbooking.CancelReservation
}

func NewBookingHandler(
	reserveUC *ucbooking.Reserve,
	cancelUC *ucbooking.CancelReservation,
) *BookingHandler {
	return &BookingHandler{
		reserveUC: reserveUC,
		cancelUC:  cancelUC,
	}
}

type ReserveRequest struct {
	PatientRef string `json:"patient_ref" binding:"required"`
}

func (h *BookingHandler) Reserve(c *gin.Context) {
	slotID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	result, err := h.reserveUC.Execute(c.Request.Context(), slotID, req.PatientRef)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"slot":             toSlotResponse(*result.Slot),
		"reservation_code": result.Code,
	})
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	slotID, ok := idParam(c, "id")
	if !ok {
		return
	}

	patientRef := c.Param("patientRef")

	slot, err := h.cancelUC.Execute(c.Request.Context(), slotID, patientRef)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"status": "cancelled",
		"slot":   toSlotResponse(*slot),
	})
}
