package models

import "time"

// Attendance marks a check-in on a calendar day. At most one per
// (student, date), enforced by a unique index.
type Attendance struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AttendanceSummary reports check-in state and the current streak.
type AttendanceSummary struct {
	StudentID     string `json:"student_id"`
	CheckedToday  bool   `json:"checked_today"`
	Streak        int    `json:"streak"`
	TotalCheckins int    `json:"total_checkins"`
}
