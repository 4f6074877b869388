package handlers

import (
	"errors"
	"net/http"

	"github.com/hashicorp/go-multierror"

	"waste-wrangler-service/internal/adapters/qualfeed"
	"waste-wrangler-service/internal/api/dto"
)

// maxFeedBytes caps the size of an uploaded qualification feed.
const maxFeedBytes = 1 << 20

type TechnicianHandler struct {
	Scheduler Scheduler
}

// Update applies a plain-text qualification feed. Malformed records are
// reported back and do not block the well-formed ones.
func (h *TechnicianHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	defer r.Body.Close()

	records, err := qualfeed.Parse(http.MaxBytesReader(w, r.Body, maxFeedBytes))
	var warnings []string
	if err != nil {
		var (
			mErr    *multierror.Error
			tooLong *http.MaxBytesError
		)
		if errors.As(err, &tooLong) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "qualification feed too large")
			return
		}
		if !errors.As(err, &mErr) {
			writeError(w, r, http.StatusBadRequest, "unreadable qualification feed")
			return
		}
		for _, e := range mErr.Errors {
			warnings = append(warnings, e.Error())
		}
	}

	n := h.Scheduler.UpdateTechnicians(r.Context(), records)
	writeJSON(w, r, http.StatusOK, dto.UpdateTechniciansResponse{Updated: n, Warnings: warnings})
}
