package handlers

import (
	"net/http"

	"waste-wrangler-service/internal/api/dto"
)

type MaintenanceHandler struct {
	Scheduler Scheduler
}

func (h *MaintenanceHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.DateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, ok := parseDate(w, r, "date", req.Date)
	if !ok {
		return
	}

	n := h.Scheduler.ScheduleMaintenance(r.Context(), date)
	writeJSON(w, r, http.StatusOK, dto.CountResponse{Scheduled: n})
}
