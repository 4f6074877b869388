package domain

import "time"

// Working day and spacing rules shared by every scheduler.
const (
	WorkdayStartHour = 8
	WorkdayEndHour   = 16

	// Buffer is the minimum gap kept around every trip for the same truck or driver.
	Buffer = 30 * time.Minute

	// AverageSpeed is the assumed travel speed in length units per hour.
	AverageSpeed = 5
)

// Wall re-expresses t as the same wall clock reading in UTC.
// Stores persist naive timestamps, so every comparison happens on wall time.
func Wall(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Day truncates t to midnight of its calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// At returns the given hour and minute on t's calendar day.
func At(t time.Time, hour, minute int) time.Time {
	return Day(t).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func WorkdayStart(t time.Time) time.Time { return At(t, WorkdayStartHour, 0) }

func WorkdayEnd(t time.Time) time.Time { return At(t, WorkdayEndHour, 0) }

// TripDuration converts a route length into travel time at AverageSpeed.
// The result is truncated to whole hours.
func TripDuration(length float64) time.Duration {
	if length <= 0 {
		return 0
	}
	return time.Duration(int64(length/AverageSpeed)) * time.Hour
}
