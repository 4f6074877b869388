package domain

import "time"

// Represents a collection route for a single waste type.
// Length drives the trip duration at AverageSpeed.
type Route struct {
	ID        int
	WasteType string
	Length    float64
}

// Expected travel time for the route.
func (r Route) Duration() time.Duration { return TripDuration(r.Length) }

// Facility receives waste of one type. Receiving capacity is unlimited.
type Facility struct {
	ID        int
	Address   string
	WasteType string
}
