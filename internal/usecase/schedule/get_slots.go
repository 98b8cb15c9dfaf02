package schedule

import (
	"context"

	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

type GetSlots struct {
	repo domain.Repository
}

func NewGetSlots(repo domain.Repository) *GetSlots {
	return &GetSlots{repo: repo}
}

func (uc *GetSlots) Execute(
	ctx context.Context,
	doctorID uint,
	from string,
	to string,
) ([]models.Slot, error) {

	fromDay, err := domain.ParseDate(from)
	if err != nil {
		return nil, err
	}
	toDay, err := domain.ParseDate(to)
	if err != nil {
		return nil, err
	}
	if toDay.Before(fromDay) {
		return nil, &domain.ValidationError{Field: "date_range", Reason: "to must not precede from"}
	}

	slots, err := uc.repo.ListSlotsForPeriod(ctx, doctorID, from, to)
	if err != nil {
		return nil, err
	}

	domain.SortSlots(slots)
	return slots, nil
}
