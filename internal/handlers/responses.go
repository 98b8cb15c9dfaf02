package handlers

import (
	schedule "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// slotResponse adds the derived booking fields the portal renders.
type slotResponse struct {
	models.Slot
	IsBooked bool           `json:"is_booked"`
	State    schedule.State `json:"state"`
}

func toSlotResponse(s models.Slot) slotResponse {
	return slotResponse{
		Slot:     s,
		IsBooked: s.IsBooked(),
		State:    schedule.StateOf(&s),
	}
}

func toSlotResponses(slots []models.Slot) []slotResponse {
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, toSlotResponse(s))
	}
	return out
}
