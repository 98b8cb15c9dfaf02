package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/mediconsult/consult-scheduler/internal/audit"
	"github.com/mediconsult/consult-scheduler/internal/catalog"
	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/httperr"
	"github.com/mediconsult/consult-scheduler/internal/locker"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// maxGenerationDays keeps generation a synchronous request/response call.
const maxGenerationDays = 92

const generationLockTTL = 30 * time.Second

// ======================================================
// INPUT
// ======================================================

type GenerateSlotsInput struct {
	DoctorID uint
	From     string
	To       string
}

// ======================================================
// USE CASE
// ======================================================

type GenerateSlots struct {
	repo     domain.Repository
	resolver *ResolveDayRanges
	catalog  *catalog.Registry
	locks    locker.Locker
	audit    *audit.Dispatcher
}

func NewGenerateSlots(
	repo domain.Repository,
	resolver *ResolveDayRanges,
	catalog *catalog.Registry,
	locks locker.Locker,
	audit *audit.Dispatcher,
) *GenerateSlots {
	return &GenerateSlots{
		repo:     repo,
		resolver: resolver,
		catalog:  catalog,
		locks:    locks,
		audit:    audit,
	}
}

// Execute materializes slots for every date in [From, To]. Regeneration
// is idempotent: slots holding bookings survive untouched, un-booked
// slots are rebuilt from the current template/override.
func (uc *GenerateSlots) Execute(
	ctx context.Context,
	in GenerateSlotsInput,
) ([]models.Slot, error) {

	from, err := domain.ParseDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := domain.ParseDate(in.To)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, &domain.ValidationError{Field: "date_range", Reason: "to must not precede from"}
	}
	if int(to.Sub(from).Hours()/24) >= maxGenerationDays {
		return nil, &domain.ValidationError{
			Field:  "date_range",
			Reason: fmt.Sprintf("must span fewer than %d days", maxGenerationDays),
		}
	}

	var all []models.Slot

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		date := day.Format("2006-01-02")

		slots, err := uc.generateDay(ctx, in.DoctorID, date)
		if err != nil {
			return nil, err
		}
		all = append(all, slots...)
	}

	uc.audit.Dispatch(audit.Event{
		DoctorID: in.DoctorID,
		Action:   "slots_generated",
		Entity:   "slot",
		Metadata: map[string]any{"from": in.From, "to": in.To, "count": len(all)},
	})

	domain.SortSlots(all)
	return all, nil
}

// generateDay holds the per-(doctor, date) lock across the
// read-preserve-replace cycle so a concurrent reserve cannot land on a
// slot that is about to be rebuilt.
func (uc *GenerateSlots) generateDay(
	ctx context.Context,
	doctorID uint,
	date string,
) ([]models.Slot, error) {

	key := fmt.Sprintf("slotgen:%d:%s", doctorID, date)

	acquired, lockValue, err := uc.locks.TryLock(ctx, key, generationLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, httperr.ErrBusiness("generation_in_progress")
	}
	defer uc.locks.Unlock(ctx, key, lockValue)

	ranges, err := uc.resolver.Execute(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	var candidates []models.Slot
	for _, r := range ranges {
		if _, err := uc.catalog.Lookup(r.ConsultationTypeID); err != nil {
			return nil, err
		}
		for _, iv := range r.Subdivide() {
			candidates = append(candidates, models.Slot{
				DoctorID:           doctorID,
				Date:               date,
				StartTime:          iv.Start,
				EndTime:            iv.End,
				DurationMin:        r.SlotDurationMin,
				ConsultationTypeID: r.ConsultationTypeID,
				Fee:                r.Fee,
				MaxPatients:        r.MaxPatients,
				BookedCount:        0,
			})
		}
	}

	return uc.repo.RegenerateDaySlots(ctx, doctorID, date, candidates)
}
