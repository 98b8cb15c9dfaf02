package booking

import (
	"context"

	"github.com/mediconsult/consult-scheduler/internal/audit"
	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
)

type DeleteSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DeleteSlot {
	return &DeleteSlot{
		repo:  repo,
		audit: audit,
	}
}

// Execute removes a slot; only open slots are deletable.
func (uc *DeleteSlot) Execute(
	ctx context.Context,
	doctorID uint,
	slotID uint,
) error {

	slot, err := uc.repo.FindSlotByID(ctx, slotID)
	if err != nil {
		return err
	}
	if doctorID != 0 && slot.DoctorID != doctorID {
		return &domain.SlotNotFoundError{SlotID: slotID}
	}

	if err := uc.repo.DeleteSlot(ctx, slotID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: slot.DoctorID,
		Action:   "slot_deleted",
		Entity:   "slot",
		EntityID: &slotID,
	})

	return nil
}
