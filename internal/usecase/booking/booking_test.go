package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediconsult/consult-scheduler/internal/catalog"
	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/infra/repository"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

type env struct {
	repo *repository.MemoryRepository

	create *CreateSlot
	edit   *EditSlot
	remove *DeleteSlot
	book   *Reserve
	cancel *CancelReservation
}

func newEnv() *env {
	repo := repository.NewMemoryRepository()
	registry := catalog.NewStaticRegistry(
		models.ConsultationType{ID: "video", Label: "Video", DefaultDurationMin: 30},
		models.ConsultationType{ID: "phone", Label: "Phone", DefaultDurationMin: 15},
	)

	return &env{
		repo:   repo,
		create: NewCreateSlot(repo, registry, nil),
		edit:   NewEditSlot(repo, registry, nil),
		remove: NewDeleteSlot(repo, nil),
		book:   NewReserve(repo, nil),
		cancel: NewCancelReservation(repo, nil),
	}
}

func (e *env) mustCreate(t *testing.T, start, end string, maxPatients int) *models.Slot {
	t.Helper()

	slot, err := e.create.Execute(context.Background(), CreateSlotInput{
		DoctorID:           1,
		Date:               "2026-01-05",
		StartTime:          start,
		EndTime:            end,
		ConsultationTypeID: "video",
		Fee:                80,
		MaxPatients:        maxPatients,
	})
	require.NoError(t, err)
	return slot
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

// --------------------------------------------------
// Create
// --------------------------------------------------

func TestCreateSlot(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	t.Run("defaults capacity to one", func(t *testing.T) {
		slot := e.mustCreate(t, "09:00", "10:00", 0)
		assert.Equal(t, 1, slot.MaxPatients)
		assert.Equal(t, 60, slot.DurationMin)
		assert.False(t, slot.IsBooked())
	})

	t.Run("rejects overlap with an existing slot", func(t *testing.T) {
		_, err := e.create.Execute(ctx, CreateSlotInput{
			DoctorID:           1,
			Date:               "2026-01-05",
			StartTime:          "09:30",
			EndTime:            "10:30",
			ConsultationTypeID: "video",
		})

		var oe *domain.OverlapError
		require.ErrorAs(t, err, &oe)
		assert.Equal(t, "09:00", oe.ConflictStart)
	})

	t.Run("adjacent slot is fine", func(t *testing.T) {
		slot := e.mustCreate(t, "10:00", "11:00", 1)
		assert.Equal(t, "10:00", slot.StartTime)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*CreateSlotInput)
		}{
			{"bad date", func(in *CreateSlotInput) { in.Date = "Jan 5" }},
			{"bad time", func(in *CreateSlotInput) { in.StartTime = "9am" }},
			{"inverted times", func(in *CreateSlotInput) { in.StartTime, in.EndTime = "15:00", "14:00" }},
			{"negative fee", func(in *CreateSlotInput) { in.Fee = -1 }},
			{"negative capacity", func(in *CreateSlotInput) { in.MaxPatients = -2 }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				in := CreateSlotInput{
					DoctorID:           1,
					Date:               "2026-02-02",
					StartTime:          "14:00",
					EndTime:            "15:00",
					ConsultationTypeID: "video",
				}
				tt.mutate(&in)

				_, err := e.create.Execute(ctx, in)
				var ve *domain.ValidationError
				assert.ErrorAs(t, err, &ve)
			})
		}
	})

	t.Run("unknown consultation type", func(t *testing.T) {
		_, err := e.create.Execute(ctx, CreateSlotInput{
			DoctorID:           1,
			Date:               "2026-02-02",
			StartTime:          "14:00",
			EndTime:            "15:00",
			ConsultationTypeID: "telepathy",
		})

		var unknown *domain.UnknownConsultationTypeError
		assert.ErrorAs(t, err, &unknown)
	})
}

// --------------------------------------------------
// Reserve / cancel lifecycle
// --------------------------------------------------

func TestReserveLifecycle(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	slot := e.mustCreate(t, "09:00", "10:00", 1)

	resA, err := e.book.Execute(ctx, slot.ID, "patient-a")
	require.NoError(t, err)
	assert.NotEmpty(t, resA.Code)
	assert.Equal(t, 1, resA.Slot.BookedCount)
	assert.Equal(t, domain.StateFull, domain.StateOf(resA.Slot))

	// capacity exhausted for patient B
	_, err = e.book.Execute(ctx, slot.ID, "patient-b")
	var full *domain.SlotFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, slot.ID, full.SlotID)

	// A cancels, the seat frees up, B retries and wins it
	freed, err := e.cancel.Execute(ctx, slot.ID, "patient-a")
	require.NoError(t, err)
	assert.Equal(t, 0, freed.BookedCount)

	resB, err := e.book.Execute(ctx, slot.ID, "patient-b")
	require.NoError(t, err)
	assert.Equal(t, 1, resB.Slot.BookedCount)
	assert.NotEqual(t, resA.Code, resB.Code)
}

func TestReserveDuplicatePatient(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	slot := e.mustCreate(t, "09:00", "10:00", 3)

	_, err := e.book.Execute(ctx, slot.ID, "patient-a")
	require.NoError(t, err)

	_, err = e.book.Execute(ctx, slot.ID, "patient-a")
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestReserveValidation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	_, err := e.book.Execute(ctx, 1, "")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = e.book.Execute(ctx, 999, "patient-a")
	var notFound *domain.SlotNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestCancelUnknownReservation(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	slot := e.mustCreate(t, "09:00", "10:00", 1)

	_, err := e.cancel.Execute(ctx, slot.ID, "nobody")
	var notFound *domain.ReservationNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nobody", notFound.PatientRef)
}

func TestReserveConcurrent(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	slot := e.mustCreate(t, "09:00", "10:00", 3)

	const patients = 10

	var wg sync.WaitGroup
	errs := make([]error, patients)

	for i := 0; i < patients; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ref := string(rune('a' + n))
			_, errs[n] = e.book.Execute(ctx, slot.ID, "patient-"+ref)
		}(i)
	}
	wg.Wait()

	var ok, rejected int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		var full *domain.SlotFullError
		require.True(t, errors.As(err, &full))
		rejected++
	}

	assert.Equal(t, 3, ok)
	assert.Equal(t, 7, rejected)

	final, err := e.repo.FindSlotByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, final.BookedCount)
	assert.Equal(t, domain.StateFull, domain.StateOf(final))
}

// --------------------------------------------------
// Edit
// --------------------------------------------------

func TestEditSlot(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	t.Run("fee and notes change freely", func(t *testing.T) {
		slot := e.mustCreate(t, "09:00", "10:00", 1)
		_, err := e.book.Execute(ctx, slot.ID, "patient-a")
		require.NoError(t, err)

		fee := 120.0
		updated, err := e.edit.Execute(ctx, EditSlotInput{
			SlotID:   slot.ID,
			DoctorID: 1,
			Fee:      &fee,
			Notes:    strPtr("bring referral letter"),
		})
		require.NoError(t, err)
		assert.Equal(t, 120.0, updated.Fee)
		assert.Equal(t, "bring referral letter", updated.Notes)
	})

	t.Run("timing frozen once booked", func(t *testing.T) {
		slot := e.mustCreate(t, "11:00", "12:00", 1)
		_, err := e.book.Execute(ctx, slot.ID, "patient-a")
		require.NoError(t, err)

		_, err = e.edit.Execute(ctx, EditSlotInput{
			SlotID:    slot.ID,
			DoctorID:  1,
			StartTime: strPtr("11:30"),
		})

		var immutable *domain.ImmutableBookedSlotError
		require.ErrorAs(t, err, &immutable)
		assert.Equal(t, "timing", immutable.Field)

		_, err = e.edit.Execute(ctx, EditSlotInput{
			SlotID:             slot.ID,
			DoctorID:           1,
			ConsultationTypeID: strPtr("phone"),
		})
		assert.ErrorAs(t, err, &immutable)
	})

	t.Run("open slot timing moves and duration follows", func(t *testing.T) {
		slot := e.mustCreate(t, "14:00", "15:00", 1)

		updated, err := e.edit.Execute(ctx, EditSlotInput{
			SlotID:    slot.ID,
			DoctorID:  1,
			StartTime: strPtr("14:30"),
			EndTime:   strPtr("15:30"),
		})
		require.NoError(t, err)
		assert.Equal(t, "14:30", updated.StartTime)
		assert.Equal(t, 60, updated.DurationMin)
	})

	t.Run("timing edit cannot create an overlap", func(t *testing.T) {
		e.mustCreate(t, "16:00", "17:00", 1)
		victim := e.mustCreate(t, "17:00", "18:00", 1)

		_, err := e.edit.Execute(ctx, EditSlotInput{
			SlotID:    victim.ID,
			DoctorID:  1,
			StartTime: strPtr("16:30"),
		})

		var oe *domain.OverlapError
		assert.ErrorAs(t, err, &oe)
	})

	t.Run("capacity cannot drop below booked count", func(t *testing.T) {
		slot := e.mustCreate(t, "19:00", "20:00", 3)
		_, err := e.book.Execute(ctx, slot.ID, "patient-a")
		require.NoError(t, err)
		_, err = e.book.Execute(ctx, slot.ID, "patient-b")
		require.NoError(t, err)

		_, err = e.edit.Execute(ctx, EditSlotInput{
			SlotID:      slot.ID,
			DoctorID:    1,
			MaxPatients: intPtr(1),
		})

		var tooLow *domain.CapacityTooLowError
		require.ErrorAs(t, err, &tooLow)
		assert.Equal(t, 2, tooLow.BookedCount)

		// raising it opens a third seat
		updated, err := e.edit.Execute(ctx, EditSlotInput{
			SlotID:      slot.ID,
			DoctorID:    1,
			MaxPatients: intPtr(5),
		})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.MaxPatients)

		_, err = e.book.Execute(ctx, slot.ID, "patient-c")
		assert.NoError(t, err)
	})

	t.Run("other doctor's slot looks missing", func(t *testing.T) {
		slot := e.mustCreate(t, "08:00", "09:00", 1)

		_, err := e.edit.Execute(ctx, EditSlotInput{
			SlotID:   slot.ID,
			DoctorID: 99,
			Notes:    strPtr("x"),
		})

		var notFound *domain.SlotNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

// --------------------------------------------------
// Delete
// --------------------------------------------------

func TestDeleteSlot(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	t.Run("open slot deletes", func(t *testing.T) {
		slot := e.mustCreate(t, "09:00", "10:00", 1)
		require.NoError(t, e.remove.Execute(ctx, 1, slot.ID))

		_, err := e.repo.FindSlotByID(ctx, slot.ID)
		var notFound *domain.SlotNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("booked slot refuses", func(t *testing.T) {
		slot := e.mustCreate(t, "10:00", "11:00", 2)
		_, err := e.book.Execute(ctx, slot.ID, "patient-a")
		require.NoError(t, err)

		err = e.remove.Execute(ctx, 1, slot.ID)
		var hasBookings *domain.SlotHasBookingsError
		require.ErrorAs(t, err, &hasBookings)
		assert.Equal(t, 1, hasBookings.BookedCount)
	})

	t.Run("other doctor's slot looks missing", func(t *testing.T) {
		slot := e.mustCreate(t, "12:00", "13:00", 1)

		err := e.remove.Execute(ctx, 99, slot.ID)
		var notFound *domain.SlotNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}
