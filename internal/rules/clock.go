// Package rules holds the pure course-domain logic: tree growth levels,
// point award tables, leaderboard derivation, week/D-day arithmetic and
// attendance streaks. Functions here perform no I/O; callers pass snapshots
// and the current time.
package rules

import "time"

// KST is the fixed UTC+9 zone used for every calendar-day derivation.
// Class scheduling is anchored to Korea Standard Time regardless of the
// server locale.
var KST = time.FixedZone("KST", 9*60*60)

// DateOnly truncates t to its calendar day in KST.
func DateOnly(t time.Time) time.Time {
	t = t.In(KST)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, KST)
}

// DateKey formats t as its KST calendar-day key.
func DateKey(t time.Time) string {
	return t.In(KST).Format("2006-01-02")
}
