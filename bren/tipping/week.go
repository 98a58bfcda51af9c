package tipping

import "time"

// WeekFunc maps an instant to the start of its accounting week. The two
// platforms bucket weeks differently and the difference is load-bearing:
// moving either formula would silently shift live aggregate rows across
// week boundaries.
type WeekFunc func(time.Time) time.Time

// SundayLocal returns the most recent Sunday at 00:00 in t's location.
// Used by the Slack tip allowance ledger.
func SundayLocal(t time.Time) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// MondayUTC returns the most recent Monday at 00:00 UTC.
// Used by the point-event weekly aggregates.
func MondayUTC(t time.Time) time.Time {
	u := t.UTC()
	day := int(u.Weekday())
	diff := u.Day() - day
	if day == 0 {
		diff -= 6
	} else {
		diff++
	}
	return time.Date(u.Year(), u.Month(), diff, 0, 0, 0, 0, time.UTC)
}
