package rules

import (
	"math"

	"github.com/bmc-class/bmc-api/internal/models"
)

// AwardTable fixes the point amount per event type. Week multipliers scale
// mission awards by curriculum week; a missing entry means x1.
type AwardTable struct {
	Attendance      int
	Mission         int
	VODFeedback     int
	RevenueProof    int
	WeekMultipliers []float64
}

// DefaultAwardTable returns the course's standard amounts.
func DefaultAwardTable() AwardTable {
	return AwardTable{
		Attendance:   5,
		Mission:      10,
		VODFeedback:  10,
		RevenueProof: 30,
	}
}

// Amount returns the base award for an event type. Admin adjustments and
// resets carry caller-supplied amounts and yield 0 here.
func (t AwardTable) Amount(event models.PointEventType) int {
	switch event {
	case models.PointEventAttendance:
		return t.Attendance
	case models.PointEventMission:
		return t.Mission
	case models.PointEventVODFeedback:
		return t.VODFeedback
	case models.PointEventRevenueProof:
		return t.RevenueProof
	default:
		return 0
	}
}

// MissionAmount applies the week multiplier to the mission award.
// Week numbering starts at 1.
func (t AwardTable) MissionAmount(week int) int {
	amount := t.Mission
	if week >= 1 && week <= len(t.WeekMultipliers) {
		amount = int(math.Round(float64(amount) * t.WeekMultipliers[week-1]))
	}
	return amount
}
