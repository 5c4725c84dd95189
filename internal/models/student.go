package models

import "time"

// UserRole represents the available roles for route authorization.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleStudent UserRole = "STUDENT"
)

// ClassType distinguishes the online and offline course tracks.
type ClassType string

const (
	ClassOnline  ClassType = "ONLINE"
	ClassOffline ClassType = "OFFLINE"
)

// Student represents a course member. Phone doubles as the login identifier.
type Student struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Phone        string    `db:"phone" json:"phone"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	ClassType    ClassType `db:"class_type" json:"class_type"`
	Team         *string   `db:"team" json:"team,omitempty"`
	IsLeader     bool      `db:"is_leader" json:"is_leader"`
	PostCount    int       `db:"post_count" json:"post_count"`
	TotalPoints  int       `db:"total_points" json:"total_points"`
	TreeLevel    int       `db:"tree_level" json:"tree_level"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// TeamName returns the team label or "" when unassigned.
func (s Student) TeamName() string {
	if s.Team == nil {
		return ""
	}
	return *s.Team
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Team      string
	ClassType ClassType
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
