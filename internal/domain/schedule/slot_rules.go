package schedule

import (
	"sort"

	"github.com/mediconsult/consult-scheduler/internal/models"
)

// ===============================
// Slot State
// ===============================

type State string

const (
	StateOpen            State = "open"
	StatePartiallyBooked State = "partially_booked"
	StateFull            State = "full"
)

// StateOf derives the booking state from the capacity counters.
func StateOf(slot *models.Slot) State {
	switch {
	case slot.BookedCount <= 0:
		return StateOpen
	case slot.BookedCount < slot.MaxPatients:
		return StatePartiallyBooked
	default:
		return StateFull
	}
}

// ===============================
// Mutation rules
// ===============================

// CanReserve guards the capacity check that precedes an increment. The
// caller must hold the slot lock so check and increment form one unit.
func CanReserve(slot *models.Slot) error {
	if slot.BookedCount >= slot.MaxPatients {
		return &SlotFullError{SlotID: slot.ID, MaxPatients: slot.MaxPatients}
	}
	return nil
}

// CanChangeTiming rejects start/end/type edits once a booking exists,
// since those would invalidate the reservations already made.
func CanChangeTiming(slot *models.Slot, field string) error {
	if slot.BookedCount > 0 {
		return &ImmutableBookedSlotError{SlotID: slot.ID, Field: field}
	}
	return nil
}

// CanSetMaxPatients allows capacity changes that keep every existing
// booking valid.
func CanSetMaxPatients(slot *models.Slot, newMax int) error {
	if newMax < 1 {
		return &ValidationError{Field: "max_patients", Reason: "must be at least 1"}
	}
	if newMax < slot.BookedCount {
		return &CapacityTooLowError{
			SlotID:      slot.ID,
			BookedCount: slot.BookedCount,
			Requested:   newMax,
		}
	}
	return nil
}

// CanDelete permits deletion only from the open state.
func CanDelete(slot *models.Slot) error {
	if slot.BookedCount > 0 {
		return &SlotHasBookingsError{SlotID: slot.ID, BookedCount: slot.BookedCount}
	}
	return nil
}

// ===============================
// Day-level invariants
// ===============================

// FindConflict returns an OverlapError when the candidate shares time with
// any sibling slot of the same doctor/date. excludeID skips the slot being
// replaced during an edit.
func FindConflict(existing []models.Slot, candidate *models.Slot, excludeID uint) error {
	for i := range existing {
		other := &existing[i]
		if other.ID == excludeID {
			continue
		}
		if Intersects(candidate.StartTime, candidate.EndTime, other.StartTime, other.EndTime) {
			return &OverlapError{
				Date:          candidate.Date,
				Start:         candidate.StartTime,
				End:           candidate.EndTime,
				ConflictStart: other.StartTime,
				ConflictEnd:   other.EndTime,
			}
		}
	}
	return nil
}

// MergeGeneratedDay decides how regeneration treats a date that is already
// materialized: booked slots are preserved untouched, un-booked slots are
// replaced, and candidates colliding with a preserved slot are dropped.
// Returns the ids of slots to remove and the candidates to insert.
func MergeGeneratedDay(existing []models.Slot, candidates []models.Slot) (removeIDs []uint, insert []models.Slot) {
	var kept []models.Slot
	for _, s := range existing {
		if s.BookedCount > 0 {
			kept = append(kept, s)
		} else {
			removeIDs = append(removeIDs, s.ID)
		}
	}

	for _, c := range candidates {
		c := c
		if err := FindConflict(kept, &c, 0); err != nil {
			continue
		}
		insert = append(insert, c)
	}
	return removeIDs, insert
}

// SortSlots orders a day's slots by start time, ties broken by
// consultation type id for deterministic display.
func SortSlots(slots []models.Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		si, _ := ParseHM(slots[i].StartTime)
		sj, _ := ParseHM(slots[j].StartTime)
		if si != sj {
			return si < sj
		}
		return slots[i].ConsultationTypeID < slots[j].ConsultationTypeID
	})
}
