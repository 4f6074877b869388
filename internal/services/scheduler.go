package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"waste-wrangler-service/internal/domain"
	"waste-wrangler-service/internal/platform/obs"
	"waste-wrangler-service/internal/ports"
)

const (
	opScheduleTrip        = "schedule_trip"
	opScheduleTrips       = "schedule_trips"
	opScheduleMaintenance = "schedule_maintenance"
	opWorkmateSphere      = "workmate_sphere"
	opRerouteWaste        = "reroute_waste"
	opUpdateTechnicians   = "update_technicians"
)

// Scheduler allocates trucks, drivers, technicians and facilities to routes
// and maintenance windows.
//
// Each public operation runs as one store transaction and reports failure
// through a neutral value (false, 0 or an empty slice) instead of an error.
// Nothing is written when an operation fails.
type Scheduler struct {
	store   ports.Store
	log     zerolog.Logger
	metrics ports.MetricsRecorder
}

func NewScheduler(store ports.Store, log zerolog.Logger, metrics ports.MetricsRecorder) *Scheduler {
	if metrics == nil {
		metrics = ports.NopRecorder{}
	}
	return &Scheduler{store: store, log: log, metrics: metrics}
}

// observe times op and, when the returned func runs, records its outcome
// and logs declined or failed calls by failure kind. The returned func must
// be deferred directly; a panic in op is turned into *errp.
func (s *Scheduler) observe(ctx context.Context, op string) func(errp *error) {
	start := time.Now()
	timed := obs.Time(ctx, s.log, op)

	return func(errp *error) {
		if r := recover(); r != nil {
			*errp = fmt.Errorf("%s: panic: %v", op, r)
		}
		timed(errp)

		err := *errp
		kind := domain.Classify(err)
		s.metrics.ObserveOperation(op, kind.String(), time.Since(start))

		switch kind {
		case domain.FailureNone:
		case domain.FailureStore:
			s.log.Error().Err(err).Str("req_id", obs.RequestID(ctx)).Str("op", op).Msg("store failure, transaction rolled back")
		default:
			s.log.Info().Err(err).Str("req_id", obs.RequestID(ctx)).Str("op", op).Str("reason", kind.String()).Msg("operation declined")
		}
	}
}

// recoverPanic keeps a panic inside an operation from crossing the public
// boundary. It must be deferred directly by the public method.
func (s *Scheduler) recoverPanic(ctx context.Context, op string) {
	if r := recover(); r != nil {
		err := fmt.Errorf("panic: %v", r)
		s.metrics.ObserveOperation(op, domain.FailureStore.String(), 0)
		s.log.Error().Err(err).Str("req_id", obs.RequestID(ctx)).Str("op", op).Msg("operation panicked")
	}
}
