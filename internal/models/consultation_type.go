package models

import "time"

// ConsultationType is a closed catalog entry (video, in_person, phone).
// The scheduling core reads it, the admin service owns it. Color is
// presentation metadata carried opaquely.
type ConsultationType struct {
	ID                 string `gorm:"primaryKey;size:32" json:"id"`
	Label              string `gorm:"size:100;not null" json:"label"`
	DefaultDurationMin int    `json:"default_duration_min"`
	Color              string `gorm:"size:16" json:"color"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
