package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"waste-wrangler-service/internal/api/dto"
)

type WorkmateHandler struct {
	Scheduler Scheduler
}

func (h *WorkmateHandler) Sphere(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("employee_id"))
	eid, err := strconv.Atoi(raw)
	if err != nil || eid <= 0 {
		writeError(w, r, http.StatusBadRequest, "employee_id must be a positive integer")
		return
	}

	ids := h.Scheduler.WorkmateSphere(r.Context(), eid)
	writeJSON(w, r, http.StatusOK, dto.WorkmatesResponse{EmployeeID: eid, Workmates: ids})
}
