package schedule

import (
	"context"

	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// DayView is what the portal's day screen consumes: the effective
// availability ranges plus whatever slots are already materialized.
type DayView struct {
	Date   string             `json:"date"`
	Ranges []domain.TimeRange `json:"ranges"`
	Slots  []models.Slot      `json:"slots"`
}

type GetDay struct {
	repo     domain.Repository
	resolver *ResolveDayRanges
}

func NewGetDay(repo domain.Repository, resolver *ResolveDayRanges) *GetDay {
	return &GetDay{repo: repo, resolver: resolver}
}

func (uc *GetDay) Execute(
	ctx context.Context,
	doctorID uint,
	date string,
) (*DayView, error) {

	ranges, err := uc.resolver.Execute(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	slots, err := uc.repo.ListDaySlots(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	domain.SortSlots(slots)

	return &DayView{
		Date:   date,
		Ranges: ranges,
		Slots:  slots,
	}, nil
}
