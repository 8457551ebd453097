// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/astrium/natal/internal/domain/analysis"
	"github.com/astrium/natal/internal/domain/chart"
	"github.com/astrium/natal/internal/domain/dedupe"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	dedupe.Deduper

	// Submit enqueues a chart for async analysis. Returns false on
	// backpressure.
	Submit(ctx context.Context, chartID string, c *chart.Chart) bool

	// Analyze runs the engine synchronously.
	Analyze(ctx context.Context, c *chart.Chart) (*analysis.Report, error)

	// Read operations over stored reports.
	Report(ctx context.Context, chartID string) (*analysis.Report, error)
	Recent(ctx context.Context, n int) ([]*analysis.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	chartsHandler    *ChartsHandler
	analyzeHandler   *AnalyzeHandler
	reportsHandler   *ReportsHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers. maxRecent caps the
// GET /reports listing.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRecent int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		chartsHandler:    NewChartsHandler(deps),
		analyzeHandler:   NewAnalyzeHandler(deps),
		reportsHandler:   NewReportsHandler(deps, maxRecent),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/charts", MetricsMiddleware(s.chartsHandler.HandlePostChart, "charts"))
	mux.HandleFunc("/analyze", MetricsMiddleware(s.analyzeHandler.HandleAnalyze, "analyze"))
	mux.HandleFunc("/reports", MetricsMiddleware(s.reportsHandler.HandleListReports, "reports"))
	mux.HandleFunc("/reports/", MetricsMiddleware(s.reportsHandler.HandleGetReport, "report"))
}

// validate checks request shape before the deep chart validation runs.
var validate = validator.New(validator.WithRequiredStructEnabled())

// chartRequest mirrors the OpenAPI schema for chart submissions: the raw
// upstream ephemeris output keyed by body name, house number and angle.
type chartRequest struct {
	ChartID string                  `json:"chart_id" validate:"omitempty,max=128"`
	Bodies  map[string]bodyPayload  `json:"bodies" validate:"required,min=2,dive"`
	Houses  map[string]cuspPayload  `json:"houses" validate:"required,len=12"`
	Angles  map[string]cuspPayload  `json:"angles" validate:"required,len=4"`
}

type bodyPayload struct {
	Longitude  float64 `json:"longitude"`
	House      int     `json:"house" validate:"min=1,max=12"`
	Retrograde bool    `json:"retrograde"`
	Speed      float64 `json:"speed"`
}

type cuspPayload struct {
	Longitude float64 `json:"longitude"`
}

// toChart converts the request into a validated domain chart. Longitude
// normalization, sign derivation and completeness checks all happen in
// chart.New.
func (r chartRequest) toChart() (*chart.Chart, error) {
	in := chart.Input{
		Bodies: make(map[string]chart.BodyInput, len(r.Bodies)),
		Houses: make(map[int]float64, len(r.Houses)),
		Angles: make(map[string]float64, len(r.Angles)),
	}
	for name, b := range r.Bodies {
		in.Bodies[name] = chart.BodyInput{
			Longitude:  b.Longitude,
			House:      b.House,
			Retrograde: b.Retrograde,
			Speed:      b.Speed,
		}
	}
	for num, h := range r.Houses {
		n, err := strconv.Atoi(num)
		if err != nil {
			return nil, fmt.Errorf("invalid house number %q", num)
		}
		in.Houses[n] = h.Longitude
	}
	for name, a := range r.Angles {
		in.Angles[name] = a.Longitude
	}
	return chart.New(in)
}

type ackResponse struct {
	Status    string `json:"status"`
	ChartID   string `json:"chart_id"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
