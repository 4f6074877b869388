package handlers

import (
	"net/http"

	"waste-wrangler-service/internal/api/dto"
)

type FacilityHandler struct {
	Scheduler Scheduler
}

// Reroute moves a facility's trips for one day to the alternate facility.
func (h *FacilityHandler) Reroute(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RerouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FacilityID <= 0 {
		writeError(w, r, http.StatusBadRequest, "facility_id must be positive")
		return
	}
	date, ok := parseDate(w, r, "date", req.Date)
	if !ok {
		return
	}

	n := h.Scheduler.RerouteWaste(r.Context(), req.FacilityID, date)
	writeJSON(w, r, http.StatusOK, dto.RerouteResponse{Rerouted: n})
}
