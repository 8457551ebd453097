// Package repository defines the report store interface and errors.
package repository

import (
	"context"

	"github.com/astrium/natal/internal/domain/analysis"
)

// Store provides read/write access to completed analysis reports.
type Store interface {
	// Put stores a report, replacing any previous report for the same
	// chart id.
	Put(ctx context.Context, report *analysis.Report) error

	// Get returns the report for a chart id.
	// Returns ErrNotFound if no report exists.
	Get(ctx context.Context, chartID string) (*analysis.Report, error)

	// Recent returns up to n reports, most recently stored first.
	Recent(ctx context.Context, n int) ([]*analysis.Report, error)

	// Count returns the number of stored reports.
	Count(ctx context.Context) int
}
