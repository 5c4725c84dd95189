package models

import "time"

// RevenueProofStatus tracks admin review of a proof.
type RevenueProofStatus string

const (
	RevenueProofPending  RevenueProofStatus = "PENDING"
	RevenueProofApproved RevenueProofStatus = "APPROVED"
	RevenueProofRejected RevenueProofStatus = "REJECTED"
)

// RevenueProof is a student-submitted evidence of blog revenue. Approval
// awards points once.
type RevenueProof struct {
	ID         string             `db:"id" json:"id"`
	StudentID  string             `db:"student_id" json:"student_id"`
	Title      string             `db:"title" json:"title"`
	Amount     int                `db:"amount" json:"amount"`
	ProofURL   string             `db:"proof_url" json:"proof_url"`
	Status     RevenueProofStatus `db:"status" json:"status"`
	ReviewedBy *string            `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time         `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `db:"updated_at" json:"updated_at"`
}
