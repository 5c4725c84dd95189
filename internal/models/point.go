package models

import "time"

// PointEventType classifies a point ledger entry.
type PointEventType string

const (
	PointEventAttendance   PointEventType = "ATTENDANCE"
	PointEventMission      PointEventType = "MISSION"
	PointEventVODFeedback  PointEventType = "VOD_FEEDBACK"
	PointEventRevenueProof PointEventType = "REVENUE_PROOF"
	PointEventAdminAdjust  PointEventType = "ADMIN_ADJUST"
	PointEventReset        PointEventType = "RESET"
)

// PointLog is an append-only ledger entry. Entries are never mutated or
// deleted; a student's total_points equals the sum of their entries.
type PointLog struct {
	ID        string         `db:"id" json:"id"`
	StudentID string         `db:"student_id" json:"student_id"`
	Points    int            `db:"points" json:"points"`
	Reason    string         `db:"reason" json:"reason"`
	Type      PointEventType `db:"type" json:"type"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// PointLogFilter selects ledger entries for listing.
type PointLogFilter struct {
	StudentID string
	Types     []PointEventType
	Page      int
	PageSize  int
}
