// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// ChartsHandler handles asynchronous chart submissions.
type ChartsHandler struct {
	deps Dependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandlePostChart handles POST /charts requests: validate, dedupe by
// chart id, enqueue for async analysis.
func (h *ChartsHandler) HandlePostChart(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_chart"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req chartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	c, err := req.toChart()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_chart", WrapKind(op, ErrBadRequest, err))
		return
	}

	chartID := req.ChartID
	if chartID == "" {
		chartID = uuid.NewString()
	}

	// Idempotency check: mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), chartID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", ChartID: chartID, Duplicate: true})
		return
	}

	if ok := h.deps.Submit(r.Context(), chartID, c); !ok {
		// Roll back the seen mark so the client can retry.
		h.deps.Unrecord(r.Context(), chartID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", ChartID: chartID})
}
