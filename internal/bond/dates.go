package bond

import "time"

// day returns midnight UTC of t's calendar date.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts actual calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(day(b).Sub(day(a)).Hours() / 24)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isEndOfMonth(t time.Time) bool {
	return t.Day() == daysIn(t.Year(), t.Month())
}

// addMonths moves t by n months, clamping the day to the target month length.
// With eom set, a month-end date stays on month ends.
func addMonths(t time.Time, n int, eom bool) time.Time {
	y, m, d := t.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := daysIn(target.Year(), target.Month())
	if d > last || (eom && isEndOfMonth(t)) {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, time.UTC)
}
