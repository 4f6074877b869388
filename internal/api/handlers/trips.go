package handlers

import (
	"net/http"

	"waste-wrangler-service/internal/api/dto"
)

type TripHandler struct {
	Scheduler Scheduler
}

// Schedule books one route at a caller-chosen start time.
func (h *TripHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ScheduleTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RouteID <= 0 {
		writeError(w, r, http.StatusBadRequest, "route_id must be positive")
		return
	}
	if req.StartAt == nil {
		writeError(w, r, http.StatusBadRequest, "start_at is required")
		return
	}

	ok := h.Scheduler.ScheduleTrip(r.Context(), req.RouteID, *req.StartAt)
	writeJSON(w, r, http.StatusOK, dto.ScheduleTripResponse{Scheduled: ok})
}

// ScheduleDay fills one truck's day with back-to-back trips.
func (h *TripHandler) ScheduleDay(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ScheduleDayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TruckID <= 0 {
		writeError(w, r, http.StatusBadRequest, "truck_id must be positive")
		return
	}
	date, ok := parseDate(w, r, "date", req.Date)
	if !ok {
		return
	}

	n := h.Scheduler.ScheduleTrips(r.Context(), req.TruckID, date)
	writeJSON(w, r, http.StatusOK, dto.CountResponse{Scheduled: n})
}
