package models

import "time"

// ConsultationStatus tracks a booking's lifecycle.
type ConsultationStatus string

const (
	ConsultationBooked    ConsultationStatus = "BOOKED"
	ConsultationDone      ConsultationStatus = "DONE"
	ConsultationCancelled ConsultationStatus = "CANCELLED"
)

// ConsultationSlot is an admin-published time slot with capacity one.
type ConsultationSlot struct {
	ID        string    `db:"id" json:"id"`
	StartsAt  time.Time `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time `db:"ends_at" json:"ends_at"`
	IsOpen    bool      `db:"is_open" json:"is_open"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Consultation is a student's booking of a slot. At most one active booking
// per slot, enforced by a partial unique index.
type Consultation struct {
	ID        string             `db:"id" json:"id"`
	StudentID string             `db:"student_id" json:"student_id"`
	SlotID    string             `db:"slot_id" json:"slot_id"`
	Topic     string             `db:"topic" json:"topic"`
	Status    ConsultationStatus `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt time.Time          `db:"updated_at" json:"updated_at"`
}
