package booking

import (
	"context"

	"github.com/mediconsult/consult-scheduler/internal/audit"
	"github.com/mediconsult/consult-scheduler/internal/catalog"
	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// Nil fields are left untouched.
type EditSlotInput struct {
	SlotID   uint
	DoctorID uint

	StartTime          *string
	EndTime            *string
	ConsultationTypeID *string
	Fee                *float64
	MaxPatients        *int
	Notes              *string
}

// ======================================================
// USE CASE
// ======================================================

type EditSlot struct {
	repo    domain.Repository
	catalog *catalog.Registry
	audit   *audit.Dispatcher
}

func NewEditSlot(
	repo domain.Repository,
	catalog *catalog.Registry,
	audit *audit.Dispatcher,
) *EditSlot {
	return &EditSlot{
		repo:    repo,
		catalog: catalog,
		audit:   audit,
	}
}

// Execute edits slot metadata. Fee, capacity and notes may change at any
// time; timing and consultation type are frozen once a booking exists.
func (uc *EditSlot) Execute(
	ctx context.Context,
	in EditSlotInput,
) (*models.Slot, error) {

	if in.ConsultationTypeID != nil {
		if _, err := uc.catalog.Lookup(*in.ConsultationTypeID); err != nil {
			return nil, err
		}
	}
	if in.Fee != nil && *in.Fee < 0 {
		return nil, &domain.ValidationError{Field: "fee", Reason: "must not be negative"}
	}

	slot, err := uc.repo.UpdateSlot(ctx, in.SlotID, func(s *models.Slot) error {
		if in.DoctorID != 0 && s.DoctorID != in.DoctorID {
			return &domain.SlotNotFoundError{SlotID: in.SlotID}
		}

		if in.StartTime != nil || in.EndTime != nil {
			if err := domain.CanChangeTiming(s, "timing"); err != nil {
				return err
			}
			if in.StartTime != nil {
				s.StartTime = *in.StartTime
			}
			if in.EndTime != nil {
				s.EndTime = *in.EndTime
			}
			start, err := domain.ParseHM(s.StartTime)
			if err != nil {
				return err
			}
			end, err := domain.ParseHM(s.EndTime)
			if err != nil {
				return err
			}
			if start >= end {
				return &domain.ValidationError{Field: "time", Reason: "start must be before end"}
			}
			s.DurationMin = end - start
		}

		if in.ConsultationTypeID != nil && *in.ConsultationTypeID != s.ConsultationTypeID {
			if err := domain.CanChangeTiming(s, "consultation_type"); err != nil {
				return err
			}
			s.ConsultationTypeID = *in.ConsultationTypeID
		}

		if in.MaxPatients != nil {
			if err := domain.CanSetMaxPatients(s, *in.MaxPatients); err != nil {
				return err
			}
			s.MaxPatients = *in.MaxPatients
		}

		if in.Fee != nil {
			s.Fee = *in.Fee
		}
		if in.Notes != nil {
			s.Notes = *in.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: slot.DoctorID,
		Action:   "slot_updated",
		Entity:   "slot",
		EntityID: &slot.ID,
	})

	return slot, nil
}
