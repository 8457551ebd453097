// Package model contains domain models passed between layers.
package model

import "github.com/astrium/natal/internal/domain/chart"

// Submission is a chart queued for asynchronous analysis. ChartID is the
// idempotency key; the chart itself has already been validated by the
// HTTP layer before it reaches the queue.
type Submission struct {
	ChartID string
	Chart   *chart.Chart
}
