package schedule

import (
	"context"

	"github.com/mediconsult/consult-scheduler/internal/models"
)

// Repository is the persistence port for the scheduling core. Every
// mutating method is atomic: it either fully applies or leaves prior
// state unchanged. Methods touching a single slot serialize against
// concurrent mutations of that slot.
type Repository interface {
	// -------- Weekly template --------
	ReplaceWeekdayRanges(
		ctx context.Context,
		doctorID uint,
		weekday int,
		rows []models.TemplateRange,
	) ([]models.TemplateRange, error)

	ListTemplate(
		ctx context.Context,
		doctorID uint,
	) ([]models.TemplateRange, error)

	ListWeekdayRanges(
		ctx context.Context,
		doctorID uint,
		weekday int,
	) ([]models.TemplateRange, error)

	// -------- Date overrides --------
	ReplaceDateOverride(
		ctx context.Context,
		override *models.DateOverride,
	) error

	// GetDateOverride returns (nil, nil) when no override exists.
	GetDateOverride(
		ctx context.Context,
		doctorID uint,
		date string,
	) (*models.DateOverride, error)

	// -------- Slots (query) --------
	ListDaySlots(
		ctx context.Context,
		doctorID uint,
		date string,
	) ([]models.Slot, error)

	ListSlotsForPeriod(
		ctx context.Context,
		doctorID uint,
		from string,
		to string,
	) ([]models.Slot, error)

	FindSlotByID(
		ctx context.Context,
		slotID uint,
	) (*models.Slot, error)

	// -------- Slots (mutation) --------

	// InsertSlot enforces the day-level no-overlap invariant.
	InsertSlot(
		ctx context.Context,
		slot *models.Slot,
	) error

	// RegenerateDaySlots applies MergeGeneratedDay under a day lock and
	// returns the resulting slot set for the date.
	RegenerateDaySlots(
		ctx context.Context,
		doctorID uint,
		date string,
		candidates []models.Slot,
	) ([]models.Slot, error)

	// UpdateSlot loads the slot under lock, applies mutate, re-checks the
	// day no-overlap invariant and saves. mutate errors abort the update.
	UpdateSlot(
		ctx context.Context,
		slotID uint,
		mutate func(*models.Slot) error,
	) (*models.Slot, error)

	// DeleteSlot removes an open slot; CanDelete guards booked ones.
	DeleteSlot(
		ctx context.Context,
		slotID uint,
	) error

	// -------- Reservations --------

	// ReserveSlot atomically checks capacity, increments BookedCount and
	// records the (slot, patientRef) association.
	ReserveSlot(
		ctx context.Context,
		slotID uint,
		patientRef string,
		code string,
	) (*models.Slot, error)

	// CancelReservation removes the association and decrements BookedCount.
	CancelReservation(
		ctx context.Context,
		slotID uint,
		patientRef string,
	) (*models.Slot, error)

	ListReservations(
		ctx context.Context,
		slotID uint,
	) ([]models.Reservation, error)
}
