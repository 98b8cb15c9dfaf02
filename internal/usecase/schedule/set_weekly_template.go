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

type SetWeeklyTemplateInput struct {
	DoctorID uint
	Weekday  int
	Ranges   []domain.TimeRange
}

// ======================================================
// USE CASE
// ======================================================

type SetWeeklyTemplate struct {
	repo    domain.Repository
	catalog *catalog.Registry
	audit   *audit.Dispatcher
}

func NewSetWeeklyTemplate(
	repo domain.Repository,
	catalog *catalog.Registry,
	audit *audit.Dispatcher,
) *SetWeeklyTemplate {
	return &SetWeeklyTemplate{
		repo:    repo,
		catalog: catalog,
		audit:   audit,
	}
}

// Execute replaces the doctor's availability ranges for one weekday.
func (uc *SetWeeklyTemplate) Execute(
	ctx context.Context,
	in SetWeeklyTemplateInput,
) ([]models.TemplateRange, error) {

	if in.Weekday < 0 || in.Weekday > 6 {
		return nil, &domain.ValidationError{Field: "weekday", Reason: "must be 0 (Sunday) through 6 (Saturday)"}
	}

	for _, r := range in.Ranges {
		if _, err := uc.catalog.Lookup(r.ConsultationTypeID); err != nil {
			return nil, err
		}
	}

	if err := domain.CheckNoOverlap(in.Ranges); err != nil {
		if oe, ok := err.(*domain.OverlapError); ok {
			oe.Weekday = in.Weekday
		}
		return nil, err
	}

	rows := make([]models.TemplateRange, 0, len(in.Ranges))
	for _, r := range in.Ranges {
		rows = append(rows, models.TemplateRange{
			DoctorID:           in.DoctorID,
			Weekday:            in.Weekday,
			StartTime:          r.Start,
			EndTime:            r.End,
			SlotDurationMin:    r.SlotDurationMin,
			ConsultationTypeID: r.ConsultationTypeID,
			MaxPatients:        r.MaxPatients,
			Fee:                r.Fee,
		})
	}

	saved, err := uc.repo.ReplaceWeekdayRanges(ctx, in.DoctorID, in.Weekday, rows)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: in.DoctorID,
		Action:   "weekly_template_updated",
		Entity:   "template_range",
		Metadata: map[string]any{"weekday": in.Weekday, "ranges": len(rows)},
	})

	return saved, nil
}
