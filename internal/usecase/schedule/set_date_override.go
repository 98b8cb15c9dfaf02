package schedule

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

type SetDateOverrideInput struct {
	DoctorID uint
	Date     string

	// Disabled blocks the whole day; Ranges replace the template instead.
	Disabled bool
	Ranges   []domain.TimeRange
}

// ======================================================
// USE CASE
// ======================================================

type SetDateOverride struct {
	repo    domain.Repository
	catalog *catalog.Registry
	audit   *audit.Dispatcher
}

func NewSetDateOverride(
	repo domain.Repository,
	catalog *catalog.Registry,
	audit *audit.Dispatcher,
) *SetDateOverride {
	return &SetDateOverride{
		repo:    repo,
		catalog: catalog,
		audit:   audit,
	}
}

// Execute sets the override for (doctor, date), replacing any prior one.
func (uc *SetDateOverride) Execute(
	ctx context.Context,
	in SetDateOverrideInput,
) (*models.DateOverride, error) {

	if _, err := domain.ParseDate(in.Date); err != nil {
		return nil, err
	}

	if in.Disabled && len(in.Ranges) > 0 {
		return nil, &domain.ValidationError{Field: "ranges", Reason: "a disabled day cannot carry ranges"}
	}

	if !in.Disabled {
		for _, r := range in.Ranges {
			if _, err := uc.catalog.Lookup(r.ConsultationTypeID); err != nil {
				return nil, err
			}
		}
		if err := domain.CheckNoOverlap(in.Ranges); err != nil {
			if oe, ok := err.(*domain.OverlapError); ok {
				oe.Date = in.Date
			}
			return nil, err
		}
	}

	override := &models.DateOverride{
		DoctorID: in.DoctorID,
		Date:     in.Date,
		Disabled: in.Disabled,
	}
	for _, r := range in.Ranges {
		override.Ranges = append(override.Ranges, models.OverrideRange{
			StartTime:          r.Start,
			EndTime:            r.End,
			SlotDurationMin:    r.SlotDurationMin,
			ConsultationTypeID: r.ConsultationTypeID,
			MaxPatients:        r.MaxPatients,
			Fee:                r.Fee,
		})
	}

	if err := uc.repo.ReplaceDateOverride(ctx, override); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: in.DoctorID,
		Action:   "date_override_set",
		Entity:   "date_override",
		EntityID: &override.ID,
		Metadata: map[string]any{"date": in.Date, "disabled": in.Disabled},
	})

	return override, nil
}
