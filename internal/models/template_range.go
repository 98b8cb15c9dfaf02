package models

import "time"

// TemplateRange is one availability window of a doctor's weekly template.
// All rows for a doctor together form the template.
type TemplateRange struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	DoctorID uint `gorm:"index:idx_template_doctor_weekday" json:"doctor_id"`

	Weekday int `gorm:"index:idx_template_doctor_weekday" json:"weekday"`

	StartTime          string  `gorm:"size:5" json:"start_time"`
	EndTime            string  `gorm:"size:5" json:"end_time"`
	SlotDurationMin    int     `json:"slot_duration_min"`
	ConsultationTypeID string  `gorm:"size:32" json:"consultation_type_id"`
	MaxPatients        int     `gorm:"default:1" json:"max_patients"`
	Fee                float64 `json:"fee"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
