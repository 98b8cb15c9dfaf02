package models

import "time"

// Slot is a single bookable time interval of a doctor on a specific date.
// Booking is capacity based: BookedCount counts active reservations and
// never exceeds MaxPatients.
type Slot struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DoctorID uint   `gorm:"index:idx_slot_doctor_date" json:"doctor_id"`
	Date     string `gorm:"size:10;index:idx_slot_doctor_date" json:"date"`

	StartTime          string  `gorm:"size:5" json:"start_time"`
	EndTime            string  `gorm:"size:5" json:"end_time"`
	DurationMin        int     `json:"duration_min"`
	ConsultationTypeID string  `gorm:"size:32" json:"consultation_type_id"`
	Fee                float64 `json:"fee"`
	MaxPatients        int     `gorm:"default:1" json:"max_patients"`
	BookedCount        int     `gorm:"default:0" json:"booked_count"`
	Notes              string  `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsBooked reports whether the slot holds at least one reservation.
func (s *Slot) IsBooked() bool {
	return s.BookedCount >= 1
}
