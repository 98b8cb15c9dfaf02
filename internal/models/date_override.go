package models

import "time"

// DateOverride replaces the weekly template for a single calendar date.
// One override per (doctor, date); setting it again replaces the prior one.
type DateOverride struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DoctorID uint   `gorm:"uniqueIndex:idx_override_doctor_date" json:"doctor_id"`
	Date     string `gorm:"size:10;uniqueIndex:idx_override_doctor_date" json:"date"`

	Disabled bool `json:"disabled"`

	Ranges []OverrideRange `gorm:"constraint:OnDelete:CASCADE;" json:"ranges"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OverrideRange struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	DateOverrideID uint `gorm:"index" json:"date_override_id"`

	StartTime          string  `gorm:"size:5" json:"start_time"`
	EndTime            string  `gorm:"size:5" json:"end_time"`
	SlotDurationMin    int     `json:"slot_duration_min"`
	ConsultationTypeID string  `gorm:"size:32" json:"consultation_type_id"`
	MaxPatients        int     `gorm:"default:1" json:"max_patients"`
	Fee                float64 `json:"fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
