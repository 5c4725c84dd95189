package rules

import "time"

// Streak counts consecutive attended calendar days ending at the most recent
// attended day. When today itself is attended the walk starts at today;
// otherwise it starts at the latest attended day, so a gap before today does
// not zero an earlier run.
func Streak(attendanceDates []time.Time, today time.Time) int {
	if len(attendanceDates) == 0 {
		return 0
	}

	attended := make(map[string]struct{}, len(attendanceDates))
	var latest time.Time
	for _, d := range attendanceDates {
		day := DateOnly(d)
		attended[DateKey(day)] = struct{}{}
		if day.After(latest) {
			latest = day
		}
	}

	start := DateOnly(today)
	if _, ok := attended[DateKey(start)]; !ok {
		start = latest
	}

	streak := 0
	for cur := start; ; cur = cur.AddDate(0, 0, -1) {
		if _, ok := attended[DateKey(cur)]; !ok {
			break
		}
		streak++
	}
	return streak
}
