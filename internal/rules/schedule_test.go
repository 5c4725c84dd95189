package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bmc-class/bmc-api/internal/models"
)

func kstDate(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, KST)
	if err != nil {
		panic(err)
	}
	return t
}

func TestCurrentWeek(t *testing.T) {
	entries := []models.ScheduleEntry{
		{Week: 0, Date: kstDate("2026-01-24")},
		{Week: 1, Date: kstDate("2026-01-31")},
	}

	assert.Equal(t, 0, CurrentWeek(entries, kstDate("2026-01-28")))
	assert.Equal(t, 1, CurrentWeek(entries, kstDate("2026-02-01")))
	assert.Equal(t, 0, CurrentWeek(entries, kstDate("2026-01-24")))
	assert.Equal(t, WeekNotStarted, CurrentWeek(entries, kstDate("2026-01-01")))
	assert.Equal(t, WeekNotStarted, CurrentWeek(nil, kstDate("2026-01-01")))
}

func TestDDay(t *testing.T) {
	today := kstDate("2026-01-30")

	assert.Equal(t, "D-2", DDay(kstDate("2026-02-01"), today))
	assert.Equal(t, "D-Day", DDay(kstDate("2026-01-30"), today))
	assert.Equal(t, "D+2", DDay(kstDate("2026-01-28"), today))
	assert.Equal(t, "D-1", DDay(kstDate("2026-01-31"), today))
}

func TestDDayIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2026, 1, 30, 23, 50, 0, 0, KST)
	target := time.Date(2026, 1, 31, 0, 10, 0, 0, KST)
	assert.Equal(t, "D-1", DDay(target, today))
}

func TestDateOnlyUsesKST(t *testing.T) {
	// 2026-01-30 20:00 UTC is already 2026-01-31 in KST.
	utc := time.Date(2026, 1, 30, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-31", DateKey(DateOnly(utc)))
}
