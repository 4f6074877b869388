package ports

import "time"

// Sink for scheduling outcomes. Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	// Record one operation call with its outcome label and duration.
	ObserveOperation(operation string, outcome string, dur time.Duration)
	// Count assignments written to the store (trips, maintenance, reroutes, qualifications).
	AddAssignments(kind string, n int)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) ObserveOperation(string, string, time.Duration) {}

func (NopRecorder) AddAssignments(string, int) {}
