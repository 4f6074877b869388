package obs

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromRecorder records scheduling outcomes as Prometheus metrics.
type PromRecorder struct {
	operations  *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	assignments *prometheus.CounterVec
}

// NewPromRecorder registers the scheduler metrics on reg. If reg is nil the
// default registerer is used. Collectors that are already registered are reused.
func NewPromRecorder(reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wastewrangler_operations_total",
		Help: "Scheduling operations by outcome",
	}, []string{"operation", "outcome"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wastewrangler_operation_duration_seconds",
		Help:    "Scheduling operation latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wastewrangler_assignments_total",
		Help: "Rows written by scheduling operations",
	}, []string{"kind"})

	var err error
	if operations, err = register(reg, operations); err != nil {
		return nil, err
	}
	if durations, err = register(reg, durations); err != nil {
		return nil, err
	}
	if assignments, err = register(reg, assignments); err != nil {
		return nil, err
	}

	return &PromRecorder{operations: operations, durations: durations, assignments: assignments}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (r *PromRecorder) ObserveOperation(operation, outcome string, dur time.Duration) {
	r.operations.WithLabelValues(operation, outcome).Inc()
	r.durations.WithLabelValues(operation).Observe(dur.Seconds())
}

func (r *PromRecorder) AddAssignments(kind string, n int) {
	if n <= 0 {
		return
	}
	r.assignments.WithLabelValues(kind).Add(float64(n))
}
