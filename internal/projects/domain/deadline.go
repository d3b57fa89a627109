package domain

import "time"

// DaysUntilDeadline returns the number of calendar days from now until
// endDate. Both instants are reduced to their calendar day first, so a
// deadline today yields 0 regardless of the time of day. The boolean is false
// only when no end date is set. Past deadlines yield negative values.
func DaysUntilDeadline(endDate *time.Time, now time.Time) (int, bool) {
	if endDate == nil {
		return 0, false
	}
	end := calendarDay(*endDate)
	today := calendarDay(now)
	return int(end.Sub(today) / (24 * time.Hour)), true
}

// calendarDay maps t to midnight UTC of the calendar day t falls on in its
// own location. Working in UTC keeps every day exactly 24 hours long.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
