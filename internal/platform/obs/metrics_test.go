package obs

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromRecorderCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorder(reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}

	rec.ObserveOperation("schedule_trip", "ok", 20*time.Millisecond)
	rec.ObserveOperation("schedule_trip", "infeasible", 5*time.Millisecond)
	rec.ObserveOperation("schedule_trip", "ok", 10*time.Millisecond)
	rec.AddAssignments("trip", 2)
	rec.AddAssignments("trip", 0)

	if got := testutil.ToFloat64(rec.operations.WithLabelValues("schedule_trip", "ok")); got != 2 {
		t.Fatalf("ok operations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.operations.WithLabelValues("schedule_trip", "infeasible")); got != 1 {
		t.Fatalf("infeasible operations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.assignments.WithLabelValues("trip")); got != 2 {
		t.Fatalf("trip assignments = %v, want 2", got)
	}
	if got := testutil.CollectAndCount(rec.durations); got != 1 {
		t.Fatalf("duration series = %d, want 1", got)
	}
}

func TestNewPromRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromRecorder(reg)
	if err != nil {
		t.Fatalf("first recorder: %v", err)
	}
	second, err := NewPromRecorder(reg)
	if err != nil {
		t.Fatalf("second recorder: %v", err)
	}

	first.AddAssignments("maintenance", 3)
	if got := testutil.ToFloat64(second.assignments.WithLabelValues("maintenance")); got != 3 {
		t.Fatalf("shared counter = %v, want 3", got)
	}
}
