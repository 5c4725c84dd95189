package models

import "time"

// ScheduleEntry pins a curriculum week to its class date. Entries form a
// fixed ascending sequence for the six-week course.
type ScheduleEntry struct {
	ID        string    `db:"id" json:"id"`
	Week      int       `db:"week" json:"week"`
	Title     string    `db:"title" json:"title"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
