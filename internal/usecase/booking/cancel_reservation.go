package booking

import (
	"context"

	"github.com/mediconsult/consult-scheduler/internal/audit"
	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

type CancelReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelReservation(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelReservation {
	return &CancelReservation{
		repo:  repo,
		audit: audit,
	}
}

// Execute releases patientRef's seat on the slot.
func (uc *CancelReservation) Execute(
	ctx context.Context,
	slotID uint,
	patientRef string,
) (*models.Slot, error) {

	if patientRef == "" {
		return nil, &domain.ValidationError{Field: "patient_ref", Reason: "must not be empty"}
	}

	slot, err := uc.repo.CancelReservation(ctx, slotID, patientRef)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: slot.DoctorID,
		Action:   "reservation_cancelled",
		Entity:   "slot",
		EntityID: &slot.ID,
		Metadata: map[string]any{"patient_ref": patientRef},
	})

	return slot, nil
}
