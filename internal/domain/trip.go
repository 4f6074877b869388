package domain

import "time"

// Trip assigns a truck, two drivers and a facility to a route at a start time.
// Volume is unknown when the trip is scheduled and filled in later.
type Trip struct {
	RouteID    int
	TruckID    int
	Start      time.Time
	Volume     *float64
	Driver1    int
	Driver2    int
	FacilityID int

	// RouteLength is loaded alongside the trip to derive its duration.
	// It is never persisted on the trip row.
	RouteLength float64
}

// End is the computed end time of the trip.
func (t Trip) End() time.Time { return t.Start.Add(TripDuration(t.RouteLength)) }

func (t Trip) Window() Window { return Window{Start: t.Start, Length: t.RouteLength} }

// HasDriver reports whether eid drives on this trip.
func (t Trip) HasDriver(eid int) bool { return t.Driver1 == eid || t.Driver2 == eid }

// Maintenance books a technician on a truck for a whole calendar day.
type Maintenance struct {
	TruckID      int
	TechnicianID int
	Date         time.Time
}
