package analysis

import (
	"context"

	"github.com/astrium/natal/internal/domain/chart"
)

// Analyzer runs every analysis component over a chart and merges their
// outputs into a Report. It holds only immutable reference tables and
// policy, so a single Analyzer is safe for any number of concurrent
// callers without coordination.
type Analyzer struct {
	orbs          OrbTable
	dignities     DignityTable
	thresholds    BalanceThresholds
	strictTrines  bool
	includeAngles bool
}

// New creates an Analyzer with engine defaults and applies options.
// It fails only when the default dignity table cannot be validated.
func New(opts ...Option) (*Analyzer, error) {
	dignities, err := NewDignityTable()
	if err != nil {
		return nil, err
	}
	a := &Analyzer{
		orbs:       NewOrbTable(),
		dignities:  dignities,
		thresholds: DefaultBalanceThresholds(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Analyze computes the full structured report for a chart. The computation
// is pure and deterministic: the same chart always produces an identical
// report. Context is accepted to satisfy the project-wide convention; the
// work is bounded and small, so there are no internal cancellation points.
func (a *Analyzer) Analyze(_ context.Context, c *chart.Chart) (*Report, error) {
	if c == nil {
		return nil, ErrNilChart
	}

	positions := c.Bodies()
	aspects := DetectAspects(ChartPoints(c, a.includeAngles), a.orbs)
	balance := ComputeBalance(positions, a.thresholds)

	return &Report{
		Aspects:    aspects,
		Patterns:   DetectPatterns(aspects, positions, a.strictTrines),
		ChartShape: ClassifyShape(positions),
		Elements:   balance.Elements,
		Modalities: balance.Modalities,
		Polarities: balance.Polarities,
		Dignities:  EvaluateDignities(positions, a.dignities),
	}, nil
}
