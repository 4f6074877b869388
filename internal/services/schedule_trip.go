package services

import (
	"context"
	"fmt"
	"time"

	"waste-wrangler-service/internal/domain"
	"waste-wrangler-service/internal/ports"
)

// ScheduleTrip assigns a truck, a driver pair and a facility to route rid
// starting at at. It reports whether a trip was recorded.
func (s *Scheduler) ScheduleTrip(ctx context.Context, rid int, at time.Time) bool {
	defer s.recoverPanic(ctx, opScheduleTrip)

	_, err := s.scheduleTrip(ctx, rid, at)
	return err == nil
}

func (s *Scheduler) scheduleTrip(ctx context.Context, rid int, at time.Time) (trip domain.Trip, err error) {
	defer s.observe(ctx, opScheduleTrip)(&err)

	at = domain.Wall(at)
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		route, err := tx.RouteByID(ctx, rid)
		if err != nil {
			return fmt.Errorf("schedule trip: %w", err)
		}

		ledger, err := loadDay(ctx, tx, at)
		if err != nil {
			return fmt.Errorf("schedule trip: %w", err)
		}
		if ledger.routeScheduled(rid) {
			return fmt.Errorf("schedule trip: route %d already has a trip on %s: %w",
				rid, ledger.day.Format(time.DateOnly), domain.ErrConflict)
		}

		window := domain.Window{Start: at, Length: route.Length}
		if !domain.WithinWorkingHours(window) {
			return fmt.Errorf("schedule trip: route %d at %s ends %s, outside working hours: %w",
				rid, at.Format(time.DateTime), window.End().Format(time.DateTime), domain.ErrInfeasible)
		}

		pool, err := resolveCandidates(ctx, tx, route.WasteType, window, ledger)
		if err != nil {
			return fmt.Errorf("schedule trip: %w", err)
		}
		if len(pool.drivers) < 2 || len(pool.trucks) == 0 {
			return fmt.Errorf("schedule trip: route %d: %d drivers and %d trucks available: %w",
				rid, len(pool.drivers), len(pool.trucks), domain.ErrInfeasible)
		}

		facility, err := lowestFacility(ctx, tx, route.WasteType, 0)
		if err != nil {
			return fmt.Errorf("schedule trip: %w", err)
		}

		// The truck is chosen first so the driver pair can be checked
		// against the chosen truck's type.
		truck, _ := domain.PickTruck(pool.trucks)
		d1, d2, ok := domain.PickDriverPair(pool.drivers, truck.TruckType)
		if !ok {
			return fmt.Errorf("schedule trip: no driver pair qualified for truck type %q: %w",
				truck.TruckType, domain.ErrInfeasible)
		}

		trip = domain.Trip{
			RouteID:     rid,
			TruckID:     truck.ID,
			Start:       at,
			Driver1:     d1.ID,
			Driver2:     d2.ID,
			FacilityID:  facility.ID,
			RouteLength: route.Length,
		}
		if err := tx.InsertTrip(ctx, trip); err != nil {
			return fmt.Errorf("schedule trip: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}

	s.metrics.AddAssignments("trip", 1)
	s.log.Info().
		Int("route_id", trip.RouteID).
		Int("truck_id", trip.TruckID).
		Int("driver1", trip.Driver1).
		Int("driver2", trip.Driver2).
		Int("facility_id", trip.FacilityID).
		Time("start", trip.Start).
		Msg("trip scheduled")
	return trip, nil
}
