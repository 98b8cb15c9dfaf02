package schedule

import (
	"context"

	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// ResolveDayRanges is the single source of truth for a date's effective
// availability: override (empty when disabled), else the weekly template
// for that weekday, else nothing. No other component may read the
// template for a date that has an override.
type ResolveDayRanges struct {
	repo domain.Repository
}

func NewResolveDayRanges(repo domain.Repository) *ResolveDayRanges {
	return &ResolveDayRanges{repo: repo}
}

func (uc *ResolveDayRanges) Execute(
	ctx context.Context,
	doctorID uint,
	date string,
) ([]domain.TimeRange, error) {

	day, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	override, err := uc.repo.GetDateOverride(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	if override != nil {
		if override.Disabled {
			return []domain.TimeRange{}, nil
		}
		out := make([]domain.TimeRange, 0, len(override.Ranges))
		for _, r := range override.Ranges {
			out = append(out, overrideRangeToDomain(r))
		}
		return out, nil
	}

	rows, err := uc.repo.ListWeekdayRanges(ctx, doctorID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}

	out := make([]domain.TimeRange, 0, len(rows))
	for _, r := range rows {
		out = append(out, templateRangeToDomain(r))
	}
	return out, nil
}

func templateRangeToDomain(r models.TemplateRange) domain.TimeRange {
	return domain.TimeRange{
		Start:              r.StartTime,
		End:                r.EndTime,
		SlotDurationMin:    r.SlotDurationMin,
		ConsultationTypeID: r.ConsultationTypeID,
		MaxPatients:        r.MaxPatients,
		Fee:                r.Fee,
	}
}

func overrideRangeToDomain(r models.OverrideRange) domain.TimeRange {
	return domain.TimeRange{
		Start:              r.StartTime,
		End:                r.EndTime,
		SlotDurationMin:    r.SlotDurationMin,
		ConsultationTypeID: r.ConsultationTypeID,
		MaxPatients:        r.MaxPatients,
		Fee:                r.Fee,
	}
}
