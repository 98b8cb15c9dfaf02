package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediconsult/consult-scheduler/internal/models"
)

func slot(id uint, start, end string, booked, max int) models.Slot {
	return models.Slot{
		ID:          id,
		DoctorID:    1,
		Date:        "2026-01-05",
		StartTime:   start,
		EndTime:     end,
		BookedCount: booked,
		MaxPatients: max,
	}
}

func TestStateOf(t *testing.T) {
	s := slot(1, "09:00", "10:00", 0, 3)
	assert.Equal(t, StateOpen, StateOf(&s))

	s.BookedCount = 1
	assert.Equal(t, StatePartiallyBooked, StateOf(&s))

	s.BookedCount = 3
	assert.Equal(t, StateFull, StateOf(&s))
}

func TestCanReserve(t *testing.T) {
	s := slot(7, "09:00", "10:00", 0, 1)
	assert.NoError(t, CanReserve(&s))

	s.BookedCount = 1
	err := CanReserve(&s)

	var full *SlotFullError
	require.ErrorAs(t, err, &full)
	assert.Equal(t, uint(7), full.SlotID)
}

func TestCanChangeTiming(t *testing.T) {
	s := slot(2, "09:00", "10:00", 0, 1)
	assert.NoError(t, CanChangeTiming(&s, "timing"))

	s.BookedCount = 1
	var immutable *ImmutableBookedSlotError
	assert.ErrorAs(t, CanChangeTiming(&s, "timing"), &immutable)
}

func TestCanSetMaxPatients(t *testing.T) {
	s := slot(3, "09:00", "10:00", 2, 4)

	assert.NoError(t, CanSetMaxPatients(&s, 2))
	assert.NoError(t, CanSetMaxPatients(&s, 10))

	var tooLow *CapacityTooLowError
	require.ErrorAs(t, CanSetMaxPatients(&s, 1), &tooLow)
	assert.Equal(t, 2, tooLow.BookedCount)

	var ve *ValidationError
	assert.ErrorAs(t, CanSetMaxPatients(&s, 0), &ve)
}

func TestCanDelete(t *testing.T) {
	s := slot(4, "09:00", "10:00", 0, 1)
	assert.NoError(t, CanDelete(&s))

	s.BookedCount = 1
	var hasBookings *SlotHasBookingsError
	assert.ErrorAs(t, CanDelete(&s), &hasBookings)
}

func TestFindConflict(t *testing.T) {
	existing := []models.Slot{
		slot(1, "09:00", "10:00", 0, 1),
		slot(2, "10:00", "11:00", 0, 1),
	}

	fresh := slot(0, "09:30", "10:30", 0, 1)
	err := FindConflict(existing, &fresh, 0)

	var oe *OverlapError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, "09:00", oe.ConflictStart)

	adjacent := slot(0, "11:00", "12:00", 0, 1)
	assert.NoError(t, FindConflict(existing, &adjacent, 0))

	// a slot never conflicts with itself during an edit
	edited := slot(1, "09:00", "10:00", 0, 1)
	assert.NoError(t, FindConflict(existing, &edited, 1))
}

func TestMergeGeneratedDay(t *testing.T) {
	existing := []models.Slot{
		slot(1, "09:00", "10:00", 0, 1),
		slot(2, "10:00", "11:00", 1, 1), // booked, must survive
		slot(3, "11:00", "12:00", 0, 1),
	}

	candidates := []models.Slot{
		slot(0, "09:30", "10:30", 0, 1), // collides with preserved booked slot
		slot(0, "11:00", "12:00", 0, 1),
		slot(0, "12:00", "13:00", 0, 1),
	}

	removeIDs, insert := MergeGeneratedDay(existing, candidates)

	assert.ElementsMatch(t, []uint{1, 3}, removeIDs)
	require.Len(t, insert, 2)
	assert.Equal(t, "11:00", insert[0].StartTime)
	assert.Equal(t, "12:00", insert[1].StartTime)
}

func TestSortSlots(t *testing.T) {
	slots := []models.Slot{
		{Date: "2026-01-06", StartTime: "09:00"},
		{Date: "2026-01-05", StartTime: "10:00", ConsultationTypeID: "video"},
		{Date: "2026-01-05", StartTime: "10:00", ConsultationTypeID: "phone"},
		{Date: "2026-01-05", StartTime: "09:00"},
	}

	SortSlots(slots)

	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "phone", slots[1].ConsultationTypeID)
	assert.Equal(t, "video", slots[2].ConsultationTypeID)
	assert.Equal(t, "2026-01-06", slots[3].Date)
}
