package services

import (
	"context"
	"fmt"
	"time"

	"waste-wrangler-service/internal/domain"
	"waste-wrangler-service/internal/ports"
)

// ScheduleTrips fills one calendar day for truck tid with back-to-back trips
// over its unscheduled routes, in ascending route id order. It returns the
// number of trips recorded.
func (s *Scheduler) ScheduleTrips(ctx context.Context, tid int, date time.Time) int {
	defer s.recoverPanic(ctx, opScheduleTrips)

	trips, err := s.scheduleTrips(ctx, tid, date)
	if err != nil {
		return 0
	}
	return len(trips)
}

// plannedTrip is one placement produced by planDay.
type plannedTrip struct {
	route domain.Route
	start time.Time
}

// dayPlan is the state folded over the route list: the next candidate start
// time, the windows the truck already occupies and the placements made so far.
type dayPlan struct {
	cursor   time.Time
	occupied []domain.Window
	trips    []plannedTrip
}

// latestBatchEnd is the latest end time for a batch trip, one buffer
// before the end of the working day.
func latestBatchEnd(day time.Time) time.Time { return domain.WorkdayEnd(day).Add(-domain.Buffer) }

// slotStep is the granularity of batch start times. Clearing a trip takes a
// gap strictly greater than domain.Buffer, so the earliest start after a
// window is one step past its end plus the buffer.
const slotStep = time.Minute

// firstFreeStart returns the earliest start in [from, limit] at which a trip
// of the given length conflicts with none of occupied. ok is false when there
// is no such start.
func firstFreeStart(from, limit time.Time, length float64, occupied []domain.Window) (start time.Time, ok bool) {
	for start = from; !start.After(limit); {
		blocker, blocked := firstConflict(domain.Window{Start: start, Length: length}, occupied)
		if !blocked {
			return start, true
		}
		next := blocker.End().Add(domain.Buffer + slotStep)
		if !next.After(start) {
			next = start.Add(slotStep)
		}
		start = next
	}
	return start, false
}

func firstConflict(w domain.Window, occupied []domain.Window) (domain.Window, bool) {
	for _, o := range occupied {
		if domain.Conflicts(o, w) {
			return o, true
		}
	}
	return domain.Window{}, false
}

// planDay places routes in order from 08:00. Each route takes the first start
// at or after the cursor that conflicts with neither the truck's existing
// trips nor the earlier placements, and the cursor then moves to its end. The
// first route that would end after latestBatchEnd stops the plan.
func planDay(day time.Time, existing []domain.Trip, routes []domain.Route) []plannedTrip {
	plan := dayPlan{cursor: domain.WorkdayStart(day)}
	for _, t := range existing {
		plan.occupied = append(plan.occupied, t.Window())
	}

	limit := latestBatchEnd(day)
	for _, r := range routes {
		start, ok := firstFreeStart(plan.cursor, limit, r.Length, plan.occupied)
		if !ok {
			break
		}
		end := start.Add(r.Duration())
		if end.After(limit) {
			break
		}
		plan.trips = append(plan.trips, plannedTrip{route: r, start: start})
		plan.occupied = append(plan.occupied, domain.Window{Start: start, Length: r.Length})
		plan.cursor = end
	}
	return plan.trips
}

func (s *Scheduler) scheduleTrips(ctx context.Context, tid int, date time.Time) (trips []domain.Trip, err error) {
	defer s.observe(ctx, opScheduleTrips)(&err)

	day := domain.Day(domain.Wall(date))
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		truck, err := tx.TruckByID(ctx, tid)
		if err != nil {
			return fmt.Errorf("schedule trips: %w", err)
		}

		ledger, err := loadDay(ctx, tx, day)
		if err != nil {
			return fmt.Errorf("schedule trips: %w", err)
		}
		if ledger.trucksUnderMaintenance().Contains(tid) {
			return fmt.Errorf("schedule trips: truck %d is under maintenance on %s: %w",
				tid, day.Format(time.DateOnly), domain.ErrInfeasible)
		}

		routes, err := tx.RoutesByWasteType(ctx, truck.WasteType)
		if err != nil {
			return fmt.Errorf("schedule trips: %w", err)
		}
		open := make([]domain.Route, 0, len(routes))
		for _, r := range routes {
			if !ledger.routeScheduled(r.ID) {
				open = append(open, r)
			}
		}
		if len(open) == 0 {
			return nil
		}

		employees, err := tx.ListEmployees(ctx)
		if err != nil {
			return fmt.Errorf("schedule trips: %w", err)
		}
		committed := ledger.committedDrivers()
		drivers := make([]domain.Employee, 0, len(employees))
		for _, e := range employees {
			if e.IsDriver() && !committed.Contains(e.ID) {
				drivers = append(drivers, e)
			}
		}

		d1, d2, ok := domain.PickDriverPair(drivers, truck.TruckType)
		if !ok {
			return fmt.Errorf("schedule trips: no free driver pair for truck type %q on %s: %w",
				truck.TruckType, day.Format(time.DateOnly), domain.ErrInfeasible)
		}
		if d2.ID < d1.ID {
			d1, d2 = d2, d1
		}

		plan := planDay(day, ledger.truckTrips(tid), open)
		if len(plan) == 0 {
			return nil
		}

		facility, err := lowestFacility(ctx, tx, truck.WasteType, 0)
		if err != nil {
			return fmt.Errorf("schedule trips: %w", err)
		}

		trips = make([]domain.Trip, 0, len(plan))
		for _, p := range plan {
			trip := domain.Trip{
				RouteID:     p.route.ID,
				TruckID:     tid,
				Start:       p.start,
				Driver1:     d1.ID,
				Driver2:     d2.ID,
				FacilityID:  facility.ID,
				RouteLength: p.route.Length,
			}
			if err := tx.InsertTrip(ctx, trip); err != nil {
				return fmt.Errorf("schedule trips: %w", err)
			}
			trips = append(trips, trip)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddAssignments("trip", len(trips))
	s.log.Info().Int("truck_id", tid).Str("date", day.Format(time.DateOnly)).Int("trips", len(trips)).Msg("truck day scheduled")
	return trips, nil
}
