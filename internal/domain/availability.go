package domain

import "time"

// Window is a scheduled or candidate trip: a start time and the length
// of the route that determines how long it runs.
type Window struct {
	Start  time.Time
	Length float64
}

func (w Window) End() time.Time { return w.Start.Add(TripDuration(w.Length)) }

// IsCompatible decides whether a candidate trip starting at candidate, over a
// route of the given length, can coexist with an existing commitment that
// starts at existing.
//
// The check is one-directional. When the existing commitment starts first only
// the gap between the two start times is considered. When it starts at or after
// the candidate, the candidate must finish by the end of the working day and
// clear the existing start by more than Buffer.
//
// Times are compared by their wall clock reading, whatever their location.
func IsCompatible(existing, candidate time.Time, length float64) bool {
	existing, candidate = Wall(existing), Wall(candidate)
	if !SameDay(existing, candidate) {
		return true
	}

	if candidate.Before(WorkdayStart(candidate)) {
		return false
	}

	if existing.Before(candidate) {
		return candidate.Sub(existing) > Buffer
	}

	end := candidate.Add(TripDuration(length))
	if end.After(WorkdayEnd(candidate)) {
		return false
	}
	if existing.After(end) {
		return existing.Sub(end) > Buffer
	}

	return false
}

// Conflicts applies IsCompatible in both directions so that each window's
// own duration is respected. Two windows that do not conflict are separated
// by more than Buffer.
func Conflicts(existing, candidate Window) bool {
	return !IsCompatible(existing.Start, candidate.Start, candidate.Length) ||
		!IsCompatible(candidate.Start, existing.Start, existing.Length)
}

// WithinWorkingHours reports whether w starts no earlier than 08:00 and
// ends no later than 16:00 on its own calendar day, read as wall clock time.
func WithinWorkingHours(w Window) bool {
	w.Start = Wall(w.Start)
	if w.Start.Before(WorkdayStart(w.Start)) {
		return false
	}
	end := w.End()
	return SameDay(w.Start, end) && !end.After(WorkdayEnd(w.Start))
}
