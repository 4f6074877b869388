package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"waste-wrangler-service/internal/api/handlers"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// db backs the /health store check and may be nil. metrics, when non-nil, is
// served at /metrics.
func NewRouter(sched handlers.Scheduler, db handlers.Pinger, log zerolog.Logger, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()

	health := &handlers.HealthHandler{DB: db}
	trips := &handlers.TripHandler{Scheduler: sched}
	maintenance := &handlers.MaintenanceHandler{Scheduler: sched}
	workmates := &handlers.WorkmateHandler{Scheduler: sched}
	facilities := &handlers.FacilityHandler{Scheduler: sched}
	technicians := &handlers.TechnicianHandler{Scheduler: sched}

	mux.HandleFunc("/health", health.Check)
	mux.HandleFunc("/trips", trips.Schedule)
	mux.HandleFunc("/trips/day", trips.ScheduleDay)
	mux.HandleFunc("/maintenance", maintenance.Schedule)
	mux.HandleFunc("/workmates", workmates.Sphere)
	mux.HandleFunc("/facilities/reroute", facilities.Reroute)
	mux.HandleFunc("/technicians/qualifications", technicians.Update)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}

	return requestIDMiddleware(loggingMiddleware(log, mux))
}
