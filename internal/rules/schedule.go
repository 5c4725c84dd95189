package rules

import (
	"fmt"
	"math"
	"time"

	"github.com/bmc-class/bmc-api/internal/models"
)

// WeekNotStarted is returned by CurrentWeek when today precedes every
// schedule entry.
const WeekNotStarted = -1

// CurrentWeek returns the week number of the latest entry whose date is on
// or before today. Entries are expected in ascending date order.
func CurrentWeek(entries []models.ScheduleEntry, today time.Time) int {
	day := DateOnly(today)
	week := WeekNotStarted
	for _, e := range entries {
		if !DateOnly(e.Date).After(day) {
			week = e.Week
		}
	}
	return week
}

// DDay formats the signed day count from today to target: "D-Day" on the
// day itself, "D-{n}" for n days ahead, "D+{n}" for n days past. The count
// is the ceiling of the calendar-day difference.
func DDay(target, today time.Time) string {
	diff := DateOnly(target).Sub(DateOnly(today))
	days := int(math.Ceil(diff.Hours() / 24))
	switch {
	case days == 0:
		return "D-Day"
	case days > 0:
		return fmt.Sprintf("D-%d", days)
	default:
		return fmt.Sprintf("D+%d", -days)
	}
}
