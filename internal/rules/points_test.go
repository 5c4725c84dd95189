package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bmc-class/bmc-api/internal/models"
)

func TestAwardTableDefaults(t *testing.T) {
	table := DefaultAwardTable()

	assert.Equal(t, 5, table.Amount(models.PointEventAttendance))
	assert.Equal(t, 10, table.Amount(models.PointEventMission))
	assert.Equal(t, 30, table.Amount(models.PointEventRevenueProof))
	assert.Equal(t, 0, table.Amount(models.PointEventAdminAdjust))
}

func TestMissionAmountMultipliers(t *testing.T) {
	table := DefaultAwardTable()
	table.WeekMultipliers = []float64{1, 1, 1.5, 2}

	assert.Equal(t, 10, table.MissionAmount(1))
	assert.Equal(t, 15, table.MissionAmount(3))
	assert.Equal(t, 20, table.MissionAmount(4))
	// Weeks past the configured list fall back to x1.
	assert.Equal(t, 10, table.MissionAmount(5))
	assert.Equal(t, 10, table.MissionAmount(0))
}
