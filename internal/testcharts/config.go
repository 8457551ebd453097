package testcharts

import "time"

// Config holds configuration for the chart test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumCharts  int           // Number of charts to generate
	RecentN    int           // Number of recent reports to fetch
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for charts
	LogFile    string        // Log file for test output
	Verbose    bool          // Enable verbose logging
}

// ChartPayload represents a chart submission
type ChartPayload struct {
	ChartID string                `json:"chart_id"`
	Bodies  map[string]BodySpec   `json:"bodies"`
	Houses  map[string]CuspSpec   `json:"houses"`
	Angles  map[string]CuspSpec   `json:"angles"`
}

// BodySpec is a single body position within a chart submission
type BodySpec struct {
	Longitude  float64 `json:"longitude"`
	House      int     `json:"house"`
	Retrograde bool    `json:"retrograde"`
	Speed      float64 `json:"speed"`
}

// CuspSpec is a house cusp or angle longitude
type CuspSpec struct {
	Longitude float64 `json:"longitude"`
}

// AckResponse represents the response from chart submission
type AckResponse struct {
	Status    string `json:"status"`
	ChartID   string `json:"chart_id"`
	Duplicate bool   `json:"duplicate"`
}

// Report is the subset of the analysis report the test verifies
type Report struct {
	ChartID  string          `json:"chart_id"`
	Aspects  []ReportAspect  `json:"aspects"`
	Patterns []ReportPattern `json:"patterns"`
	Shape    ReportShape     `json:"chart_shape"`
	Elements ReportTally     `json:"element_balance"`

	Dignities map[string]string `json:"dignities"`
}

// ReportAspect is a detected aspect within a report
type ReportAspect struct {
	First      string  `json:"planet1"`
	Second     string  `json:"planet2"`
	Type       string  `json:"type"`
	Separation float64 `json:"separation"`
	Orb        float64 `json:"orb"`
	Major      bool    `json:"major"`
}

// ReportPattern is a detected configuration within a report
type ReportPattern struct {
	Type   string   `json:"type"`
	Bodies []string `json:"planets"`
}

// ReportShape is the chart shape classification within a report
type ReportShape struct {
	Name   string  `json:"shape_name"`
	Span   float64 `json:"span"`
	MaxGap float64 `json:"max_gap"`
}

// ReportTally is a balance tally within a report
type ReportTally struct {
	Counts      map[string]int     `json:"counts"`
	Percentages map[string]float64 `json:"percentages"`
	Dominant    string             `json:"dominant"`
	Lacking     []string           `json:"lacking"`
}

// Stats holds test statistics
type Stats struct {
	ChartsGenerated  int
	ChartsSubmitted  int
	ChartsSuccessful int
	ChartsDuplicate  int
	ChartsFailed     int
	ReportsRetrieved int
	RecentReports    int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
