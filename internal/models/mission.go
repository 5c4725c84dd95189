package models

import "time"

// MissionType categorises missions shown per curriculum week.
type MissionType string

const (
	MissionTypePost    MissionType = "POST"
	MissionTypeComment MissionType = "COMMENT"
	MissionTypeSpecial MissionType = "SPECIAL"
)

// Mission is a dated, typed task worth fixed points.
type Mission struct {
	ID        string      `db:"id" json:"id"`
	Week      int         `db:"week" json:"week"`
	Type      MissionType `db:"type" json:"type"`
	Title     string      `db:"title" json:"title"`
	Content   string      `db:"content" json:"content"`
	Points    int         `db:"points" json:"points"`
	IsActive  bool        `db:"is_active" json:"is_active"`
	StartsAt  time.Time   `db:"starts_at" json:"starts_at"`
	EndsAt    time.Time   `db:"ends_at" json:"ends_at"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// MissionLog records a completion. At most one per (student, mission),
// enforced by a unique index.
type MissionLog struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	MissionID   string    `db:"mission_id" json:"mission_id"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}

// MissionFilter selects missions for listing.
type MissionFilter struct {
	Week       *int
	ActiveOnly bool
	Page       int
	PageSize   int
}
