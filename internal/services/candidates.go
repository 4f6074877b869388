package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/go-set/v2"

	"waste-wrangler-service/internal/domain"
	"waste-wrangler-service/internal/ports"
)

// dayLedger is the committed state of one calendar day, read inside the
// operation's transaction.
type dayLedger struct {
	day         time.Time
	trips       []domain.Trip
	maintenance []domain.Maintenance
}

func loadDay(ctx context.Context, tx ports.Tx, day time.Time) (dayLedger, error) {
	day = domain.Day(day)
	next := day.AddDate(0, 0, 1)

	trips, err := tx.TripsBetween(ctx, day, next)
	if err != nil {
		return dayLedger{}, fmt.Errorf("load day %s: %w", day.Format(time.DateOnly), err)
	}
	maintenance, err := tx.MaintenanceBetween(ctx, day, next)
	if err != nil {
		return dayLedger{}, fmt.Errorf("load day %s: %w", day.Format(time.DateOnly), err)
	}

	return dayLedger{day: day, trips: trips, maintenance: maintenance}, nil
}

func (l dayLedger) routeScheduled(rid int) bool {
	return slices.ContainsFunc(l.trips, func(t domain.Trip) bool { return t.RouteID == rid })
}

func (l dayLedger) trucksUnderMaintenance() *set.Set[int] {
	out := set.New[int](len(l.maintenance))
	for _, m := range l.maintenance {
		out.Insert(m.TruckID)
	}
	return out
}

func (l dayLedger) committedDrivers() *set.Set[int] {
	out := set.New[int](2 * len(l.trips))
	for _, t := range l.trips {
		out.Insert(t.Driver1)
		out.Insert(t.Driver2)
	}
	return out
}

func (l dayLedger) truckTrips(tid int) []domain.Trip {
	var out []domain.Trip
	for _, t := range l.trips {
		if t.TruckID == tid {
			out = append(out, t)
		}
	}
	return out
}

// candidatePool holds the resources able to serve one candidate window.
type candidatePool struct {
	drivers []domain.Employee
	trucks  []domain.Truck
}

// resolveCandidates returns the drivers and the trucks for wasteType that are
// free for w. Trucks under maintenance that day are excluded. Any trip that
// conflicts with w removes its truck and both of its drivers. An empty pool
// is a normal outcome.
func resolveCandidates(ctx context.Context, tx ports.Tx, wasteType string, w domain.Window, ledger dayLedger) (candidatePool, error) {
	employees, err := tx.ListEmployees(ctx)
	if err != nil {
		return candidatePool{}, fmt.Errorf("resolve candidates: %w", err)
	}
	trucks, err := tx.TrucksByWasteType(ctx, wasteType)
	if err != nil {
		return candidatePool{}, fmt.Errorf("resolve candidates: %w", err)
	}

	busyTrucks := ledger.trucksUnderMaintenance()
	busyDrivers := set.New[int](0)
	for _, t := range ledger.trips {
		if !domain.Conflicts(t.Window(), w) {
			continue
		}
		busyTrucks.Insert(t.TruckID)
		busyDrivers.Insert(t.Driver1)
		busyDrivers.Insert(t.Driver2)
	}

	pool := candidatePool{}
	for _, e := range employees {
		if e.IsDriver() && !busyDrivers.Contains(e.ID) {
			pool.drivers = append(pool.drivers, e)
		}
	}
	for _, t := range trucks {
		if !busyTrucks.Contains(t.ID) {
			pool.trucks = append(pool.trucks, t)
		}
	}
	return pool, nil
}

// techniciansByTruckType groups technicians by the truck types they are
// qualified for, each group ordered by id.
func techniciansByTruckType(employees []domain.Employee) map[string][]domain.Employee {
	out := make(map[string][]domain.Employee)
	for _, e := range employees {
		if !e.IsTechnician() {
			continue
		}
		for _, tt := range e.Technician.TruckTypes {
			out[tt] = append(out[tt], e)
		}
	}
	for tt := range out {
		slices.SortFunc(out[tt], func(a, b domain.Employee) int { return cmp.Compare(a.ID, b.ID) })
	}
	return out
}

// lowestFacility returns the lowest-id facility accepting wasteType, skipping exclude.
func lowestFacility(ctx context.Context, tx ports.Tx, wasteType string, exclude int) (domain.Facility, error) {
	facilities, err := tx.FacilitiesByWasteType(ctx, wasteType)
	if err != nil {
		return domain.Facility{}, fmt.Errorf("resolve facility: %w", err)
	}
	for _, f := range facilities {
		if f.ID != exclude {
			return f, nil
		}
	}
	return domain.Facility{}, fmt.Errorf("no facility accepts %q: %w", wasteType, domain.ErrInfeasible)
}
