package services

import (
	"context"
	"fmt"
	"time"

	"waste-wrangler-service/internal/domain"
	"waste-wrangler-service/internal/ports"
)

// RerouteWaste moves every trip bound for facility fid in the 24 hours from
// date to the lowest-id other facility accepting the same waste type. It
// returns the number of trips moved.
func (s *Scheduler) RerouteWaste(ctx context.Context, fid int, date time.Time) int {
	defer s.recoverPanic(ctx, opRerouteWaste)

	n, err := s.rerouteWaste(ctx, fid, date)
	if err != nil {
		return 0
	}
	return n
}

func (s *Scheduler) rerouteWaste(ctx context.Context, fid int, date time.Time) (moved int, err error) {
	defer s.observe(ctx, opRerouteWaste)(&err)

	start := domain.Day(domain.Wall(date))
	end := start.Add(24 * time.Hour)
	var alternate domain.Facility

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		facility, err := tx.FacilityByID(ctx, fid)
		if err != nil {
			return fmt.Errorf("reroute waste: %w", err)
		}
		alternate, err = lowestFacility(ctx, tx, facility.WasteType, fid)
		if err != nil {
			return fmt.Errorf("reroute waste from facility %d: %w", fid, err)
		}

		trips, err := tx.FacilityTripsBetween(ctx, fid, start, end)
		if err != nil {
			return fmt.Errorf("reroute waste: %w", err)
		}
		if len(trips) == 0 {
			return nil
		}

		n, err := tx.RerouteTrips(ctx, fid, alternate.ID, start, end)
		if err != nil {
			return fmt.Errorf("reroute waste: %w", err)
		}
		if n != len(trips) {
			return fmt.Errorf("reroute waste: updated %d trips, expected %d", n, len(trips))
		}
		moved = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if moved > 0 {
		s.metrics.AddAssignments("reroute", moved)
		s.log.Info().Int("from", fid).Int("to", alternate.ID).Str("date", start.Format(time.DateOnly)).Int("trips", moved).Msg("waste rerouted")
	}
	return moved, nil
}
