package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/mediconsult/consult-scheduler/internal/domain/schedule"
	"github.com/mediconsult/consult-scheduler/internal/models"
)

type SlotGormRepository struct {
	db *gorm.DB
}

func NewSlotGormRepository(db *gorm.DB) *SlotGormRepository {
	return &SlotGormRepository{db: db}
}

// --------------------------------------------------
// Weekly template
// --------------------------------------------------

func (r *SlotGormRepository) ReplaceWeekdayRanges(
	ctx context.Context,
	doctorID uint,
	weekday int,
	rows []models.TemplateRange,
) ([]models.TemplateRange, error) {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
			Delete(&models.TemplateRange{}).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *SlotGormRepository) ListTemplate(
	ctx context.Context,
	doctorID uint,
) ([]models.TemplateRange, error) {

	var rows []models.TemplateRange
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("weekday ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SlotGormRepository) ListWeekdayRanges(
	ctx context.Context,
	doctorID uint,
	weekday int,
) ([]models.TemplateRange, error) {

	var rows []models.TemplateRange
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// --------------------------------------------------
// Date overrides
// --------------------------------------------------

func (r *SlotGormRepository) ReplaceDateOverride(
	ctx context.Context,
	override *models.DateOverride,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prior models.DateOverride
		err := tx.
			Where("doctor_id = ? AND date = ?", override.DoctorID, override.Date).
			First(&prior).Error

		if err == nil {
			if err := tx.Where("date_override_id = ?", prior.ID).
				Delete(&models.OverrideRange{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&prior).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Create(override).Error
	})
}

func (r *SlotGormRepository) GetDateOverride(
	ctx context.Context,
	doctorID uint,
	date string,
) (*models.DateOverride, error) {

	var override models.DateOverride
	err := r.db.WithContext(ctx).
		Preload("Ranges").
		Where("doctor_id = ? AND date = ?", doctorID, date).
		First(&override).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &override, nil
}

// --------------------------------------------------
// Slots (query)
// --------------------------------------------------

func (r *SlotGormRepository) ListDaySlots(
	ctx context.Context,
	doctorID uint,
	date string,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Order("start_time ASC, consultation_type_id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SlotGormRepository) ListSlotsForPeriod(
	ctx context.Context,
	doctorID uint,
	from string,
	to string,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND date >= ? AND date <= ?", doctorID, from, to).
		Order("date ASC, start_time ASC, consultation_type_id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SlotGormRepository) FindSlotByID(
	ctx context.Context,
	slotID uint,
) (*models.Slot, error) {

	var slot models.Slot
	err := r.db.WithContext(ctx).First(&slot, slotID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.SlotNotFoundError{SlotID: slotID}
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// --------------------------------------------------
// Slots (mutation)
// --------------------------------------------------

// lockDaySlots serializes against every other writer of the same
// doctor/date before the no-overlap invariant is evaluated.
func lockDaySlots(tx *gorm.DB, doctorID uint, date string) ([]models.Slot, error) {
	var slots []models.Slot
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Order("start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *SlotGormRepository) InsertSlot(
	ctx context.Context,
	slot *models.Slot,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lockDaySlots(tx, slot.DoctorID, slot.Date)
		if err != nil {
			return err
		}

		if err := domain.FindConflict(existing, slot, 0); err != nil {
			return err
		}

		return tx.Create(slot).Error
	})
}

func (r *SlotGormRepository) RegenerateDaySlots(
	ctx context.Context,
	doctorID uint,
	date string,
	candidates []models.Slot,
) ([]models.Slot, error) {

	var result []models.Slot

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := lockDaySlots(tx, doctorID, date)
		if err != nil {
			return err
		}

		removeIDs, insert := domain.MergeGeneratedDay(existing, candidates)

		if len(removeIDs) > 0 {
			if err := tx.Delete(&models.Slot{}, removeIDs).Error; err != nil {
				return err
			}
		}
		if len(insert) > 0 {
			if err := tx.Create(&insert).Error; err != nil {
				return err
			}
		}

		return tx.
			Where("doctor_id = ? AND date = ?", doctorID, date).
			Order("start_time ASC, consultation_type_id ASC").
			Find(&result).Error
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SlotGormRepository) UpdateSlot(
	ctx context.Context,
	slotID uint,
	mutate func(*models.Slot) error,
) (*models.Slot, error) {

	target, err := r.FindSlotByID(ctx, slotID)
	if err != nil {
		return nil, err
	}

	var updated models.Slot

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		daySlots, err := lockDaySlots(tx, target.DoctorID, target.Date)
		if err != nil {
			return err
		}

		var slot *models.Slot
		for i := range daySlots {
			if daySlots[i].ID == slotID {
				slot = &daySlots[i]
				break
			}
		}
		if slot == nil {
			return &domain.SlotNotFoundError{SlotID: slotID}
		}

		if err := mutate(slot); err != nil {
			return err
		}

		if err := domain.FindConflict(daySlots, slot, slot.ID); err != nil {
			return err
		}

		if err := tx.Save(slot).Error; err != nil {
			return err
		}
		updated = *slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *SlotGormRepository) DeleteSlot(
	ctx context.Context,
	slotID uint,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.Slot
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, slotID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.SlotNotFoundError{SlotID: slotID}
		}
		if err != nil {
			return err
		}

		if err := domain.CanDelete(&slot); err != nil {
			return err
		}

		return tx.Delete(&slot).Error
	})
}

// --------------------------------------------------
// Reservations
// --------------------------------------------------

func (r *SlotGormRepository) ReserveSlot(
	ctx context.Context,
	slotID uint,
	patientRef string,
	code string,
) (*models.Slot, error) {

	var reserved models.Slot

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.Slot
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, slotID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.SlotNotFoundError{SlotID: slotID}
		}
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Reservation{}).
			Where("slot_id = ? AND patient_ref = ?", slotID, patientRef).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return &domain.ValidationError{Field: "patient_ref", Reason: "already holds a reservation on this slot"}
		}

		if err := domain.CanReserve(&slot); err != nil {
			return err
		}

		reservation := models.Reservation{
			SlotID:     slotID,
			PatientRef: patientRef,
			Code:       code,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		slot.BookedCount++
		if err := tx.Save(&slot).Error; err != nil {
			return err
		}

		reserved = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &reserved, nil
}

func (r *SlotGormRepository) CancelReservation(
	ctx context.Context,
	slotID uint,
	patientRef string,
) (*models.Slot, error) {

	var released models.Slot

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slot models.Slot
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&slot, slotID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.SlotNotFoundError{SlotID: slotID}
		}
		if err != nil {
			return err
		}

		var reservation models.Reservation
		err = tx.
			Where("slot_id = ? AND patient_ref = ?", slotID, patientRef).
			First(&reservation).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.ReservationNotFoundError{SlotID: slotID, PatientRef: patientRef}
		}
		if err != nil {
			return err
		}

		if err := tx.Delete(&reservation).Error; err != nil {
			return err
		}

		if slot.BookedCount > 0 {
			slot.BookedCount--
		}
		if err := tx.Save(&slot).Error; err != nil {
			return err
		}

		released = slot
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &released, nil
}

func (r *SlotGormRepository) ListReservations(
	ctx context.Context,
	slotID uint,
) ([]models.Reservation, error) {

	var reservations []models.Reservation
	if err := r.db.WithContext(ctx).
		Where("slot_id = ?", slotID).
		Order("created_at ASC").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// Compile-time check
var _ domain.Repository = (*SlotGormRepository)(nil)
