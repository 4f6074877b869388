package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/hashicorp/go-set/v2"

	"waste-wrangler-service/internal/domain"
	"waste-wrangler-service/internal/ports"
)

const (
	// maintenanceInterval is how long a truck may go without maintenance.
	maintenanceInterval = 90
	// maintenanceLookahead is how far ahead an already scheduled
	// maintenance counts as covering a truck, inclusive.
	maintenanceLookahead = 10
	// maintenanceSearchDays bounds the search for a free technician day.
	maintenanceSearchDays = 365
)

// ScheduleMaintenance books a technician day for every truck overdue for
// maintenance as of date. It returns the number of trucks booked.
func (s *Scheduler) ScheduleMaintenance(ctx context.Context, date time.Time) int {
	defer s.recoverPanic(ctx, opScheduleMaintenance)

	booked, err := s.scheduleMaintenance(ctx, date)
	if err != nil {
		return 0
	}
	return len(booked)
}

// busyCalendar tracks, per date, which ids are committed.
type busyCalendar map[string]*set.Set[int]

func dayKey(t time.Time) string { return t.Format(time.DateOnly) }

func (c busyCalendar) mark(day time.Time, id int) {
	k := dayKey(day)
	if c[k] == nil {
		c[k] = set.New[int](1)
	}
	c[k].Insert(id)
}

func (c busyCalendar) busy(day time.Time, id int) bool {
	ids, ok := c[dayKey(day)]
	return ok && ids.Contains(id)
}

// overdueTrucks returns the trucks, ordered by id, last maintained more than
// maintenanceInterval days before day (or never) and with nothing booked in
// the lookahead window starting at day.
func overdueTrucks(ctx context.Context, tx ports.Tx, day time.Time) ([]domain.Truck, error) {
	trucks, err := tx.ListTrucks(ctx)
	if err != nil {
		return nil, err
	}
	last, err := tx.LastMaintenanceBefore(ctx, day)
	if err != nil {
		return nil, err
	}
	upcoming, err := tx.MaintenanceBetween(ctx, day, day.AddDate(0, 0, maintenanceLookahead+1))
	if err != nil {
		return nil, err
	}

	covered := set.New[int](len(upcoming))
	for _, m := range upcoming {
		covered.Insert(m.TruckID)
	}

	cutoff := day.AddDate(0, 0, -maintenanceInterval)
	var out []domain.Truck
	for _, t := range trucks {
		if covered.Contains(t.ID) {
			continue
		}
		if at, ok := last[t.ID]; ok && !at.Before(cutoff) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Scheduler) scheduleMaintenance(ctx context.Context, date time.Time) (booked []domain.Maintenance, err error) {
	defer s.observe(ctx, opScheduleMaintenance)(&err)

	day := domain.Day(domain.Wall(date))
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		candidates, err := overdueTrucks(ctx, tx, day)
		if err != nil {
			return fmt.Errorf("schedule maintenance: %w", err)
		}
		if len(candidates) == 0 {
			return nil
		}

		employees, err := tx.ListEmployees(ctx)
		if err != nil {
			return fmt.Errorf("schedule maintenance: %w", err)
		}
		technicians := techniciansByTruckType(employees)

		first := day.AddDate(0, 0, 1)
		horizon := first.AddDate(0, 0, maintenanceSearchDays)
		trips, err := tx.TripsBetween(ctx, first, horizon)
		if err != nil {
			return fmt.Errorf("schedule maintenance: %w", err)
		}
		existing, err := tx.MaintenanceBetween(ctx, first, horizon)
		if err != nil {
			return fmt.Errorf("schedule maintenance: %w", err)
		}

		trucksBusy, techsBusy := busyCalendar{}, busyCalendar{}
		for _, t := range trips {
			trucksBusy.mark(t.Start, t.TruckID)
		}
		for _, m := range existing {
			trucksBusy.mark(m.Date, m.TruckID)
			techsBusy.mark(m.Date, m.TechnicianID)
		}

		for _, truck := range candidates {
			qualified := technicians[truck.TruckType]
			if len(qualified) == 0 {
				s.log.Debug().Int("truck_id", truck.ID).Str("truck_type", truck.TruckType).Msg("no technician qualified, skipping")
				continue
			}

			m, ok := earliestSlot(truck, qualified, first, horizon, trucksBusy, techsBusy)
			if !ok {
				s.log.Debug().Int("truck_id", truck.ID).Msg("no free maintenance day in horizon")
				continue
			}
			if err := tx.InsertMaintenance(ctx, m); err != nil {
				return fmt.Errorf("schedule maintenance: %w", err)
			}
			trucksBusy.mark(m.Date, m.TruckID)
			techsBusy.mark(m.Date, m.TechnicianID)
			booked = append(booked, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.AddAssignments("maintenance", len(booked))
	s.log.Info().Str("date", day.Format(time.DateOnly)).Int("booked", len(booked)).Msg("maintenance scheduled")
	return booked, nil
}

// earliestSlot finds the first day in [from, to) on which truck is free and
// one of qualified (ordered by id) has no other maintenance.
func earliestSlot(truck domain.Truck, qualified []domain.Employee, from, to time.Time, trucksBusy, techsBusy busyCalendar) (domain.Maintenance, bool) {
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		if trucksBusy.busy(d, truck.ID) {
			continue
		}
		i := slices.IndexFunc(qualified, func(e domain.Employee) bool { return !techsBusy.busy(d, e.ID) })
		if i < 0 {
			continue
		}
		return domain.Maintenance{TruckID: truck.ID, TechnicianID: qualified[i].ID, Date: d}, true
	}
	return domain.Maintenance{}, false
}
