package models

import "time"

// VODAssignment is a recorded-lecture homework item for a curriculum week.
type VODAssignment struct {
	ID        string    `db:"id" json:"id"`
	Week      int       `db:"week" json:"week"`
	Title     string    `db:"title" json:"title"`
	VideoURL  string    `db:"video_url" json:"video_url"`
	DueDate   time.Time `db:"due_date" json:"due_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// VODSubmission is a student's homework submission. Feedback points are
// awarded at most once, gated on FeedbackAt being unset.
type VODSubmission struct {
	ID            string     `db:"id" json:"id"`
	StudentID     string     `db:"student_id" json:"student_id"`
	AssignmentID  string     `db:"assignment_id" json:"assignment_id"`
	Content       string     `db:"content" json:"content"`
	PostURL       string     `db:"post_url" json:"post_url"`
	Feedback      *string    `db:"feedback" json:"feedback,omitempty"`
	FeedbackAt    *time.Time `db:"feedback_at" json:"feedback_at,omitempty"`
	PointsAwarded int        `db:"points_awarded" json:"points_awarded"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
