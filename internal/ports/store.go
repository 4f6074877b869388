package ports

import (
	"context"
	"time"

	"waste-wrangler-service/internal/domain"
)

// Port: transactional boundary over the shared relational store.
//
// Every scheduling operation re-reads committed state through a Tx, computes
// its decision and writes it back inside the same transaction.
type Store interface {
	// Run fn inside one transaction. The transaction commits when fn returns
	// nil and rolls back otherwise, leaving the store unchanged.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Reads and writes available inside a scheduling transaction.
// Lookups by id return an error wrapping domain.ErrNotFound for unknown ids.
// Time ranges are half-open: [from, to).
type Tx interface {
	RouteByID(ctx context.Context, rid int) (domain.Route, error)
	TruckByID(ctx context.Context, tid int) (domain.Truck, error)
	FacilityByID(ctx context.Context, fid int) (domain.Facility, error)

	// Routes carrying wasteType, ordered by id.
	RoutesByWasteType(ctx context.Context, wasteType string) ([]domain.Route, error)
	// Trucks whose type carries wasteType, ordered by id.
	TrucksByWasteType(ctx context.Context, wasteType string) ([]domain.Truck, error)
	// All trucks, ordered by id.
	ListTrucks(ctx context.Context) ([]domain.Truck, error)
	// Facilities accepting wasteType, ordered by id.
	FacilitiesByWasteType(ctx context.Context, wasteType string) ([]domain.Facility, error)
	TruckTypeExists(ctx context.Context, truckType string) (bool, error)

	// All employees with their driver and technician capabilities, ordered by id.
	ListEmployees(ctx context.Context) ([]domain.Employee, error)
	EmployeeByName(ctx context.Context, name string) (domain.Employee, error)

	// Trips starting in [from, to), with their route length, ordered by start then route.
	TripsBetween(ctx context.Context, from, to time.Time) ([]domain.Trip, error)
	// Trips for facility fid starting in [from, to).
	FacilityTripsBetween(ctx context.Context, fid int, from, to time.Time) ([]domain.Trip, error)
	// Employee ids that shared any trip with eid.
	CoDrivers(ctx context.Context, eid int) ([]int, error)

	// Maintenance records dated in [from, to).
	MaintenanceBetween(ctx context.Context, from, to time.Time) ([]domain.Maintenance, error)
	// Latest maintenance date strictly before day, per truck id.
	LastMaintenanceBefore(ctx context.Context, day time.Time) (map[int]time.Time, error)

	InsertTrip(ctx context.Context, trip domain.Trip) error
	InsertMaintenance(ctx context.Context, m domain.Maintenance) error
	InsertTechnicianQualification(ctx context.Context, eid int, truckType string) error
	// Move trips for facility from to facility to for starts in [start, end).
	// Returns the number of rows updated.
	RerouteTrips(ctx context.Context, from, to int, start, end time.Time) (int, error)
}
