// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/astrium/natal/internal/adapters/repository"
)

// ReportsHandler handles report retrieval requests.
type ReportsHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps Dependencies, maxLimit int) *ReportsHandler {
	return &ReportsHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetReport handles GET /reports/{chart_id} requests.
func (h *ReportsHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	chartID := strings.TrimPrefix(r.URL.Path, "/reports/")
	if chartID == "" || strings.Contains(chartID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	report, err := h.deps.Report(r.Context(), chartID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleListReports handles GET /reports?limit=N requests.
func (h *ReportsHandler) HandleListReports(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_reports"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	reports, err := h.deps.Recent(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, reports)
}
