package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStreakEmpty(t *testing.T) {
	assert.Equal(t, 0, Streak(nil, kstDate("2026-01-05")))
}

func TestStreakEndsAtLastAttendedDay(t *testing.T) {
	dates := []time.Time{
		kstDate("2026-01-01"),
		kstDate("2026-01-02"),
		kstDate("2026-01-03"),
	}
	// Gap at 01-04, today 01-05 unattended: streak counts the run ending
	// at the most recent attended day instead of resetting to zero.
	assert.Equal(t, 3, Streak(dates, kstDate("2026-01-05")))
}

func TestStreakIncludesToday(t *testing.T) {
	dates := []time.Time{
		kstDate("2026-01-03"),
		kstDate("2026-01-04"),
		kstDate("2026-01-05"),
	}
	assert.Equal(t, 3, Streak(dates, kstDate("2026-01-05")))
}

func TestStreakBrokenRun(t *testing.T) {
	dates := []time.Time{
		kstDate("2026-01-01"),
		kstDate("2026-01-03"),
		kstDate("2026-01-04"),
	}
	assert.Equal(t, 2, Streak(dates, kstDate("2026-01-04")))
}

func TestStreakSingleDay(t *testing.T) {
	dates := []time.Time{kstDate("2026-01-01")}
	assert.Equal(t, 1, Streak(dates, kstDate("2026-02-01")))
}
