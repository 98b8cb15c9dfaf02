package schedule

import "fmt"

// Every recoverable scheduling failure is one of the typed errors below.
// Each carries a stable code for transport mapping plus enough context
// (slot id, conflicting range) for the caller to correct its input.

type OverlapError struct {
	Date          string
	Weekday       int
	Start         string
	End           string
	ConflictStart string
	ConflictEnd   string
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf(
		"range %s-%s overlaps %s-%s",
		e.Start, e.End, e.ConflictStart, e.ConflictEnd,
	)
}

func (e *OverlapError) Code() string { return "overlap" }

type SlotNotFoundError struct {
	SlotID uint
}

func (e *SlotNotFoundError) Error() string {
	return fmt.Sprintf("slot %d not found", e.SlotID)
}

func (e *SlotNotFoundError) Code() string { return "slot_not_found" }

type SlotFullError struct {
	SlotID      uint
	MaxPatients int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("slot %d is full (capacity %d)", e.SlotID, e.MaxPatients)
}

func (e *SlotFullError) Code() string { return "slot_full" }

type ReservationNotFoundError struct {
	SlotID     uint
	PatientRef string
}

func (e *ReservationNotFoundError) Error() string {
	return fmt.Sprintf("no reservation for patient %q on slot %d", e.PatientRef, e.SlotID)
}

func (e *ReservationNotFoundError) Code() string { return "reservation_not_found" }

type ImmutableBookedSlotError struct {
	SlotID uint
	Field  string
}

func (e *ImmutableBookedSlotError) Error() string {
	return fmt.Sprintf("slot %d has bookings, %s cannot change", e.SlotID, e.Field)
}

func (e *ImmutableBookedSlotError) Code() string { return "slot_immutable_booked" }

type CapacityTooLowError struct {
	SlotID      uint
	BookedCount int
	Requested   int
}

func (e *CapacityTooLowError) Error() string {
	return fmt.Sprintf(
		"slot %d holds %d bookings, capacity %d is too low",
		e.SlotID, e.BookedCount, e.Requested,
	)
}

func (e *CapacityTooLowError) Code() string { return "capacity_too_low" }

type SlotHasBookingsError struct {
	SlotID      uint
	BookedCount int
}

func (e *SlotHasBookingsError) Error() string {
	return fmt.Sprintf("slot %d has %d active bookings", e.SlotID, e.BookedCount)
}

func (e *SlotHasBookingsError) Code() string { return "slot_has_bookings" }

type UnknownConsultationTypeError struct {
	ID string
}

func (e *UnknownConsultationTypeError) Error() string {
	return fmt.Sprintf("unknown consultation type %q", e.ID)
}

func (e *UnknownConsultationTypeError) Code() string { return "unknown_consultation_type" }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Code() string { return "validation" }

// Coded is implemented by every domain error above.
type Coded interface {
	error
	Code() string
}
