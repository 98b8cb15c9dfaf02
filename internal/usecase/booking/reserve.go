package booking

import (
	"context"

	"github.com/google/uuid"

	"github.com/mediconsult/consult-scheduler/internal/audit"
	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// ======================================================
// USE CASE
// ======================================================

type Reserve struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReserve(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Reserve {
	return &Reserve{
		repo:  repo,
		audit: audit,
	}
}

type ReserveResult struct {
	Slot *models.Slot `json:"slot"`
	Code string       `json:"reservation_code"`
}

// Execute books one seat of the slot for patientRef. The capacity check
// and increment happen atomically inside the repository.
func (uc *Reserve) Execute(
	ctx context.Context,
	slotID uint,
	patientRef string,
) (*ReserveResult, error) {

	if patientRef == "" {
		return nil, &domain.ValidationError{Field: "patient_ref", Reason: "must not be empty"}
	}

	code := uuid.NewString()

	slot, err := uc.repo.ReserveSlot(ctx, slotID, patientRef, code)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: slot.DoctorID,
		Action:   "slot_reserved",
		Entity:   "slot",
		EntityID: &slot.ID,
		Metadata: map[string]any{"patient_ref": patientRef},
	})

	return &ReserveResult{Slot: slot, Code: code}, nil
}
