package models

import "time"

// Reservation ties an externally-supplied patient reference to a slot.
// Patient identity is resolved by the auth collaborator, never here.
type Reservation struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SlotID     uint   `gorm:"uniqueIndex:idx_reservation_slot_patient" json:"slot_id"`
	PatientRef string `gorm:"size:100;uniqueIndex:idx_reservation_slot_patient" json:"patient_ref"`
	Code       string `gorm:"size:36;uniqueIndex" json:"code"`

	CreatedAt time.Time `json:"created_at"`
}
