package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediconsult/consult-scheduler/internal/catalog"
	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/httperr"
	"github.com/mediconsult/consult-scheduler/internal/infra/repository"
	"github.com/mediconsult/consult-scheduler/internal/locker"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// monday is a known Monday used across the scenarios.
const monday = "2026-01-05"

type env struct {
	repo     *repository.MemoryRepository
	locks    *locker.MemoryLocker
	resolver *ResolveDayRanges

	setTemplate *SetWeeklyTemplate
	setOverride *SetDateOverride
	generate    *GenerateSlots
	getSlots    *GetSlots
	getDay      *GetDay
}

func newEnv() *env {
	repo := repository.NewMemoryRepository()
	registry := catalog.NewStaticRegistry(
		models.ConsultationType{ID: "video", Label: "Video", DefaultDurationMin: 30},
		models.ConsultationType{ID: "phone", Label: "Phone", DefaultDurationMin: 15},
	)
	locks := locker.NewMemory()
	resolver := NewResolveDayRanges(repo)

	return &env{
		repo:        repo,
		locks:       locks,
		resolver:    resolver,
		setTemplate: NewSetWeeklyTemplate(repo, registry, nil),
		setOverride: NewSetDateOverride(repo, registry, nil),
		generate:    NewGenerateSlots(repo, resolver, registry, locks, nil),
		getSlots:    NewGetSlots(repo),
		getDay:      NewGetDay(repo, resolver),
	}
}

func mondayTemplate(fee float64, durationMin, maxPatients int) SetWeeklyTemplateInput {
	return SetWeeklyTemplateInput{
		DoctorID: 1,
		Weekday:  int(time.Monday),
		Ranges: []domain.TimeRange{{
			Start:              "09:00",
			End:                "13:00",
			SlotDurationMin:    durationMin,
			ConsultationTypeID: "video",
			MaxPatients:        maxPatients,
			Fee:                fee,
		}},
	}
}

// --------------------------------------------------
// Weekly template
// --------------------------------------------------

func TestSetWeeklyTemplate(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	t.Run("stores ranges for the weekday", func(t *testing.T) {
		rows, err := e.setTemplate.Execute(ctx, mondayTemplate(50, 60, 1))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int(time.Monday), rows[0].Weekday)
	})

	t.Run("rejects overlapping ranges", func(t *testing.T) {
		in := mondayTemplate(50, 60, 1)
		in.Ranges = append(in.Ranges, domain.TimeRange{
			Start: "12:00", End: "14:00",
			SlotDurationMin: 60, ConsultationTypeID: "video", MaxPatients: 1,
		})

		_, err := e.setTemplate.Execute(ctx, in)

		var oe *domain.OverlapError
		require.ErrorAs(t, err, &oe)
		assert.Equal(t, int(time.Monday), oe.Weekday)
	})

	t.Run("rejects unknown consultation type", func(t *testing.T) {
		in := mondayTemplate(50, 60, 1)
		in.Ranges[0].ConsultationTypeID = "house_call"

		_, err := e.setTemplate.Execute(ctx, in)

		var unknown *domain.UnknownConsultationTypeError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, "house_call", unknown.ID)
	})

	t.Run("rejects out-of-range weekday", func(t *testing.T) {
		in := mondayTemplate(50, 60, 1)
		in.Weekday = 7

		_, err := e.setTemplate.Execute(ctx, in)
		var ve *domain.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

// --------------------------------------------------
// Resolution: override > template > none
// --------------------------------------------------

func TestResolveDayRanges(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.setTemplate.Execute(ctx, mondayTemplate(50, 60, 1))
	require.NoError(t, err)

	t.Run("falls back to the weekly template", func(t *testing.T) {
		ranges, err := e.resolver.Execute(ctx, 1, monday)
		require.NoError(t, err)
		require.Len(t, ranges, 1)
		assert.Equal(t, "09:00", ranges[0].Start)
	})

	t.Run("empty when nothing is defined", func(t *testing.T) {
		ranges, err := e.resolver.Execute(ctx, 1, "2026-01-06")
		require.NoError(t, err)
		assert.Empty(t, ranges)
	})

	t.Run("replacement override wins over the template", func(t *testing.T) {
		_, err := e.setOverride.Execute(ctx, SetDateOverrideInput{
			DoctorID: 1,
			Date:     monday,
			Ranges: []domain.TimeRange{{
				Start: "15:00", End: "17:00",
				SlotDurationMin: 30, ConsultationTypeID: "phone", MaxPatients: 1,
			}},
		})
		require.NoError(t, err)

		ranges, err := e.resolver.Execute(ctx, 1, monday)
		require.NoError(t, err)
		require.Len(t, ranges, 1)
		assert.Equal(t, "15:00", ranges[0].Start)
		assert.Equal(t, "phone", ranges[0].ConsultationTypeID)
	})

	t.Run("disabled override blanks the day regardless of template", func(t *testing.T) {
		_, err := e.setOverride.Execute(ctx, SetDateOverrideInput{
			DoctorID: 1,
			Date:     monday,
			Disabled: true,
		})
		require.NoError(t, err)

		ranges, err := e.resolver.Execute(ctx, 1, monday)
		require.NoError(t, err)
		assert.Empty(t, ranges)
	})

	t.Run("setting again replaces the prior override", func(t *testing.T) {
		_, err := e.setOverride.Execute(ctx, SetDateOverrideInput{
			DoctorID: 1,
			Date:     monday,
			Ranges: []domain.TimeRange{{
				Start: "08:00", End: "09:00",
				SlotDurationMin: 30, ConsultationTypeID: "video", MaxPatients: 1,
			}},
		})
		require.NoError(t, err)

		ranges, err := e.resolver.Execute(ctx, 1, monday)
		require.NoError(t, err)
		require.Len(t, ranges, 1)
		assert.Equal(t, "08:00", ranges[0].Start)
	})
}

func TestSetDateOverrideValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.setOverride.Execute(ctx, SetDateOverrideInput{
		DoctorID: 1,
		Date:     "05/01/2026",
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = e.setOverride.Execute(ctx, SetDateOverrideInput{
		DoctorID: 1,
		Date:     monday,
		Disabled: true,
		Ranges: []domain.TimeRange{{
			Start: "09:00", End: "10:00",
			SlotDurationMin: 30, ConsultationTypeID: "video", MaxPatients: 1,
		}},
	})
	assert.ErrorAs(t, err, &ve)
}

// --------------------------------------------------
// Generation
// --------------------------------------------------

func TestGenerateSlotsMondayScenario(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.setTemplate.Execute(ctx, mondayTemplate(80, 60, 1))
	require.NoError(t, err)

	slots, err := e.generate.Execute(ctx, GenerateSlotsInput{DoctorID: 1, From: monday, To: monday})
	require.NoError(t, err)

	require.Len(t, slots, 4)
	starts := []string{slots[0].StartTime, slots[1].StartTime, slots[2].StartTime, slots[3].StartTime}
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "12:00"}, starts)

	for _, s := range slots {
		assert.Equal(t, 0, s.BookedCount)
		assert.Equal(t, 1, s.MaxPatients)
		assert.Equal(t, 80.0, s.Fee)
		assert.Equal(t, "video", s.ConsultationTypeID)
		assert.Equal(t, domain.StateOpen, domain.StateOf(&s))
	}
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.setTemplate.Execute(ctx, mondayTemplate(80, 60, 1))
	require.NoError(t, err)

	in := GenerateSlotsInput{DoctorID: 1, From: monday, To: monday}

	first, err := e.generate.Execute(ctx, in)
	require.NoError(t, err)

	second, err := e.generate.Execute(ctx, in)
	require.NoError(t, err)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].StartTime, second[i].StartTime)
		assert.Equal(t, first[i].EndTime, second[i].EndTime)
		assert.Equal(t, first[i].Fee, second[i].Fee)
	}
}

func TestGenerateSlotsPreservesBookedSlots(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.setTemplate.Execute(ctx, mondayTemplate(80, 60, 1))
	require.NoError(t, err)

	first, err := e.generate.Execute(ctx, GenerateSlotsInput{DoctorID: 1, From: monday, To: monday})
	require.NoError(t, err)

	// book the 10:00 slot, then stretch the template to 2h slots
	booked := first[1]
	require.Equal(t, "10:00", booked.StartTime)
	_, err = e.repo.ReserveSlot(ctx, booked.ID, "patient-a", "code-1")
	require.NoError(t, err)

	_, err = e.setTemplate.Execute(ctx, mondayTemplate(80, 120, 1))
	require.NoError(t, err)

	regenerated, err := e.generate.Execute(ctx, GenerateSlotsInput{DoctorID: 1, From: monday, To: monday})
	require.NoError(t, err)

	// the booked slot survives untouched; the 09:00-11:00 candidate that
	// would cover it is dropped, the 11:00-13:00 one lands
	require.Len(t, regenerated, 2)
	assert.Equal(t, booked.ID, regenerated[0].ID)
	assert.Equal(t, "10:00", regenerated[0].StartTime)
	assert.Equal(t, 1, regenerated[0].BookedCount)
	assert.Equal(t, "11:00", regenerated[1].StartTime)
	assert.Equal(t, "13:00", regenerated[1].EndTime)
}

func TestGenerateSlotsDisabledDay(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.setTemplate.Execute(ctx, mondayTemplate(80, 60, 1))
	require.NoError(t, err)

	_, err = e.generate.Execute(ctx, GenerateSlotsInput{DoctorID: 1, From: monday, To: monday})
	require.NoError(t, err)

	_, err = e.setOverride.Execute(ctx, SetDateOverrideInput{DoctorID: 1, Date: monday, Disabled: true})
	require.NoError(t, err)

	slots, err := e.generate.Execute(ctx, GenerateSlotsInput{DoctorID: 1, From: monday, To: monday})
	require.NoError(t, err)
	assert.Empty(t, slots)

	remaining, err := e.getSlots.Execute(ctx, 1, monday, monday)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestGenerateSlotsRangeValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	var ve *domain.ValidationError

	_, err := e.generate.Execute(ctx, GenerateSlotsInput{DoctorID: 1, From: "2026-01-10", To: monday})
	require.ErrorAs(t, err, &ve)

	_, err = e.generate.Execute(ctx, GenerateSlotsInput{DoctorID: 1, From: monday, To: "2026-06-01"})
	require.ErrorAs(t, err, &ve)
}

func TestGenerateSlotsBusyDay(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.setTemplate.Execute(ctx, mondayTemplate(80, 60, 1))
	require.NoError(t, err)

	acquired, _, err := e.locks.TryLock(ctx, "slotgen:1:"+monday, 30*time.Second)
	require.NoError(t, err)
	require.True(t, acquired)

	_, err = e.generate.Execute(ctx, GenerateSlotsInput{DoctorID: 1, From: monday, To: monday})
	assert.True(t, httperr.IsBusiness(err, "generation_in_progress"))
}

func TestGetDay(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.setTemplate.Execute(ctx, mondayTemplate(80, 60, 2))
	require.NoError(t, err)

	_, err = e.generate.Execute(ctx, GenerateSlotsInput{DoctorID: 1, From: monday, To: monday})
	require.NoError(t, err)

	view, err := e.getDay.Execute(ctx, 1, monday)
	require.NoError(t, err)

	assert.Equal(t, monday, view.Date)
	require.Len(t, view.Ranges, 1)
	assert.Len(t, view.Slots, 4)
}
