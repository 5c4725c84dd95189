package models

import "time"

// QnAStatus tracks whether a question has been answered.
type QnAStatus string

const (
	QnAStatusOpen     QnAStatus = "OPEN"
	QnAStatusAnswered QnAStatus = "ANSWERED"
)

// QnA is a student question with an optional admin answer.
type QnA struct {
	ID         string     `db:"id" json:"id"`
	StudentID  string     `db:"student_id" json:"student_id"`
	Title      string     `db:"title" json:"title"`
	Question   string     `db:"question" json:"question"`
	Answer     *string    `db:"answer" json:"answer,omitempty"`
	AnsweredBy *string    `db:"answered_by" json:"answered_by,omitempty"`
	AnsweredAt *time.Time `db:"answered_at" json:"answered_at,omitempty"`
	Status     QnAStatus  `db:"status" json:"status"`
	IsPrivate  bool       `db:"is_private" json:"is_private"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// QnAFilter selects questions for listing.
type QnAFilter struct {
	StudentID string
	Status    QnAStatus
	Page      int
	PageSize  int
}
