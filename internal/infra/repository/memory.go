package repository

import (
	"context"
	"sync"

	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

// MemoryRepository is a map-backed Repository with the same atomicity
// guarantees as the gorm implementation, used by the use-case tests and
// available for local development without postgres.
type MemoryRepository struct {
	mu sync.Mutex

	nextID       uint
	template     map[uint][]models.TemplateRange         // doctorID -> rows
	overrides    map[uint]map[string]models.DateOverride // doctorID -> date -> override
	slots        map[uint]models.Slot                    // slotID -> slot
	reservations map[uint][]models.Reservation           // slotID -> reservations
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID:       1,
		template:     map[uint][]models.TemplateRange{},
		overrides:    map[uint]map[string]models.DateOverride{},
		slots:        map[uint]models.Slot{},
		reservations: map[uint][]models.Reservation{},
	}
}

func (r *MemoryRepository) id() uint {
	id := r.nextID
	r.nextID++
	return id
}

// --------------------------------------------------
// Weekly template
// --------------------------------------------------

func (r *MemoryRepository) ReplaceWeekdayRanges(
	_ context.Context,
	doctorID uint,
	weekday int,
	rows []models.TemplateRange,
) ([]models.TemplateRange, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []models.TemplateRange
	for _, row := range r.template[doctorID] {
		if row.Weekday != weekday {
			kept = append(kept, row)
		}
	}
	for i := range rows {
		rows[i].ID = r.id()
		kept = append(kept, rows[i])
	}
	r.template[doctorID] = kept
	return rows, nil
}

func (r *MemoryRepository) ListTemplate(
	_ context.Context,
	doctorID uint,
) ([]models.TemplateRange, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.TemplateRange, len(r.template[doctorID]))
	copy(out, r.template[doctorID])
	return out, nil
}

func (r *MemoryRepository) ListWeekdayRanges(
	_ context.Context,
	doctorID uint,
	weekday int,
) ([]models.TemplateRange, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.TemplateRange
	for _, row := range r.template[doctorID] {
		if row.Weekday == weekday {
			out = append(out, row)
		}
	}
	return out, nil
}

// --------------------------------------------------
// Date overrides
// --------------------------------------------------

func (r *MemoryRepository) ReplaceDateOverride(
	_ context.Context,
	override *models.DateOverride,
) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.overrides[override.DoctorID] == nil {
		r.overrides[override.DoctorID] = map[string]models.DateOverride{}
	}
	override.ID = r.id()
	for i := range override.Ranges {
		override.Ranges[i].ID = r.id()
		override.Ranges[i].DateOverrideID = override.ID
	}
	r.overrides[override.DoctorID][override.Date] = *override
	return nil
}

func (r *MemoryRepository) GetDateOverride(
	_ context.Context,
	doctorID uint,
	date string,
) (*models.DateOverride, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	override, ok := r.overrides[doctorID][date]
	if !ok {
		return nil, nil
	}
	found := override
	return &found, nil
}

// --------------------------------------------------
// Slots (query)
// --------------------------------------------------

func (r *MemoryRepository) daySlotsLocked(doctorID uint, date string) []models.Slot {
	var out []models.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID && s.Date == date {
			out = append(out, s)
		}
	}
	domain.SortSlots(out)
	return out
}

func (r *MemoryRepository) ListDaySlots(
	_ context.Context,
	doctorID uint,
	date string,
) ([]models.Slot, error) {

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.daySlotsLocked(doctorID, date), nil
}

func (r *MemoryRepository) ListSlotsForPeriod(
	_ context.Context,
	doctorID uint,
	from string,
	to string,
) ([]models.Slot, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Slot
	for _, s := range r.slots {
		if s.DoctorID == doctorID && s.Date >= from && s.Date <= to {
			out = append(out, s)
		}
	}
	domain.SortSlots(out)
	return out, nil
}

func (r *MemoryRepository) FindSlotByID(
	_ context.Context,
	slotID uint,
) (*models.Slot, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok {
		return nil, &domain.SlotNotFoundError{SlotID: slotID}
	}
	out := s
	return &out, nil
}

// --------------------------------------------------
// Slots (mutation)
// --------------------------------------------------

func (r *MemoryRepository) InsertSlot(
	_ context.Context,
	slot *models.Slot,
) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.daySlotsLocked(slot.DoctorID, slot.Date)
	if err := domain.FindConflict(existing, slot, 0); err != nil {
		return err
	}

	slot.ID = r.id()
	r.slots[slot.ID] = *slot
	return nil
}

func (r *MemoryRepository) RegenerateDaySlots(
	_ context.Context,
	doctorID uint,
	date string,
	candidates []models.Slot,
) ([]models.Slot, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.daySlotsLocked(doctorID, date)
	removeIDs, insert := domain.MergeGeneratedDay(existing, candidates)

	for _, id := range removeIDs {
		delete(r.slots, id)
	}
	for i := range insert {
		insert[i].ID = r.id()
		r.slots[insert[i].ID] = insert[i]
	}

	return r.daySlotsLocked(doctorID, date), nil
}

func (r *MemoryRepository) UpdateSlot(
	_ context.Context,
	slotID uint,
	mutate func(*models.Slot) error,
) (*models.Slot, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok {
		return nil, &domain.SlotNotFoundError{SlotID: slotID}
	}

	if err := mutate(&s); err != nil {
		return nil, err
	}

	siblings := r.daySlotsLocked(s.DoctorID, s.Date)
	if err := domain.FindConflict(siblings, &s, s.ID); err != nil {
		return nil, err
	}

	r.slots[slotID] = s
	out := s
	return &out, nil
}

func (r *MemoryRepository) DeleteSlot(
	_ context.Context,
	slotID uint,
) error {

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok {
		return &domain.SlotNotFoundError{SlotID: slotID}
	}
	if err := domain.CanDelete(&s); err != nil {
		return err
	}

	delete(r.slots, slotID)
	delete(r.reservations, slotID)
	return nil
}

// --------------------------------------------------
// Reservations
// --------------------------------------------------

func (r *MemoryRepository) ReserveSlot(
	_ context.Context,
	slotID uint,
	patientRef string,
	code string,
) (*models.Slot, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok {
		return nil, &domain.SlotNotFoundError{SlotID: slotID}
	}

	for _, res := range r.reservations[slotID] {
		if res.PatientRef == patientRef {
			return nil, &domain.ValidationError{Field: "patient_ref", Reason: "already holds a reservation on this slot"}
		}
	}

	if err := domain.CanReserve(&s); err != nil {
		return nil, err
	}

	r.reservations[slotID] = append(r.reservations[slotID], models.Reservation{
		ID:         r.id(),
		SlotID:     slotID,
		PatientRef: patientRef,
		Code:       code,
	})

	s.BookedCount++
	r.slots[slotID] = s
	out := s
	return &out, nil
}

func (r *MemoryRepository) CancelReservation(
	_ context.Context,
	slotID uint,
	patientRef string,
) (*models.Slot, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[slotID]
	if !ok {
		return nil, &domain.SlotNotFoundError{SlotID: slotID}
	}

	found := -1
	for i, res := range r.reservations[slotID] {
		if res.PatientRef == patientRef {
			found = i
			break
		}
	}
	if found < 0 {
		return nil, &domain.ReservationNotFoundError{SlotID: slotID, PatientRef: patientRef}
	}

	r.reservations[slotID] = append(
		r.reservations[slotID][:found],
		r.reservations[slotID][found+1:]...,
	)

	if s.BookedCount > 0 {
		s.BookedCount--
	}
	r.slots[slotID] = s
	out := s
	return &out, nil
}

func (r *MemoryRepository) ListReservations(
	_ context.Context,
	slotID uint,
) ([]models.Reservation, error) {

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Reservation, len(r.reservations[slotID]))
	copy(out, r.reservations[slotID])
	return out, nil
}

// Compile-time check
var _ domain.Repository = (*MemoryRepository)(nil)
