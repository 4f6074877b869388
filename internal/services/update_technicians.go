package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-set/v2"

	"waste-wrangler-service/internal/domain"
	"waste-wrangler-service/internal/platform/obs"
	"waste-wrangler-service/internal/ports"
)

// UpdateTechnicians records the technician qualifications in records and
// returns how many were added. Records naming an unknown employee or truck
// type, a driver, a qualification already held, or a repeat of an earlier
// record are skipped.
func (s *Scheduler) UpdateTechnicians(ctx context.Context, records []domain.Qualification) int {
	defer s.recoverPanic(ctx, opUpdateTechnicians)

	n, err := s.updateTechnicians(ctx, records)
	if err != nil {
		return 0
	}
	return n
}

type qualificationKey struct {
	eid       int
	truckType string
}

func (s *Scheduler) updateTechnicians(ctx context.Context, records []domain.Qualification) (added int, err error) {
	defer s.observe(ctx, opUpdateTechnicians)(&err)

	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Tx) error {
		added = 0
		seen := set.New[qualificationKey](len(records))
		for _, r := range records {
			reason, err := checkQualification(ctx, tx, r, seen)
			if err != nil {
				return err
			}
			if reason != "" {
				s.log.Warn().Str("req_id", obs.RequestID(ctx)).Str("name", r.FullName()).Str("truck_type", r.TruckType).Str("reason", reason).Msg("qualification skipped")
				continue
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.metrics.AddAssignments("qualification", added)
	s.log.Info().Int("records", len(records)).Int("added", added).Msg("technicians updated")
	return added, nil
}

// checkQualification inserts r when valid and otherwise returns why it was
// skipped. Only store failures are returned as errors.
func checkQualification(ctx context.Context, tx ports.Tx, r domain.Qualification, seen *set.Set[qualificationKey]) (string, error) {
	emp, err := tx.EmployeeByName(ctx, r.FullName())
	if errors.Is(err, domain.ErrNotFound) {
		return "unknown employee", nil
	}
	if err != nil {
		return "", fmt.Errorf("update technicians: %w", err)
	}

	known, err := tx.TruckTypeExists(ctx, r.TruckType)
	if err != nil {
		return "", fmt.Errorf("update technicians: %w", err)
	}
	switch {
	case !known:
		return "unknown truck type", nil
	case emp.IsDriver():
		return "employee is a driver", nil
	case emp.CanMaintain(r.TruckType):
		return "already qualified", nil
	}
	if !seen.Insert(qualificationKey{eid: emp.ID, truckType: r.TruckType}) {
		return "duplicate record", nil
	}

	if err := tx.InsertTechnicianQualification(ctx, emp.ID, r.TruckType); err != nil {
		return "", fmt.Errorf("update technicians: %w", err)
	}
	return "", nil
}
