// Package app provides the core service that implements the dependencies
// required by the HTTP API: it owns the analyzer, the report store, the
// submission queue and the worker pool.
package app

import (
	"context"
	"sync"

	"github.com/astrium/natal/internal/adapters/mq/queue"
	"github.com/astrium/natal/internal/adapters/mq/worker"
	"github.com/astrium/natal/internal/adapters/repository"
	"github.com/astrium/natal/internal/domain/analysis"
	"github.com/astrium/natal/internal/domain/chart"
	"github.com/astrium/natal/internal/domain/dedupe"
	"github.com/astrium/natal/internal/domain/model"
	"github.com/astrium/natal/pkg/logger"
	"github.com/astrium/natal/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize   = 10_000
	defaultDedupeSize  = 50_000
	defaultShardCount  = 8
	defaultWorkerCount = 0 // 0 lets the pool pick from CPU count
)

// Service implements the API dependencies for the chart analysis system.
type Service struct {
	mu sync.RWMutex

	// Core components
	analyzer *analysis.Analyzer
	reports  repository.Store
	deduper  dedupe.Deduper
	queue    queue.Queue
	workers  *worker.Pool

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	shardCount    int
	orbOverrides  map[string]float64
	thresholds    analysis.BalanceThresholds
	strictTrines  bool
	includeAngles bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a Service with default configuration and applies options.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		shardCount:  defaultShardCount,
		thresholds:  analysis.DefaultBalanceThresholds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components. Reference tables
// are validated here, before any request is accepted; a malformed table
// refuses startup instead of failing per-request.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting analysis service...")

	orbs, unknown := analysis.NewOrbTable().WithOverrides(s.orbOverrides)
	for _, name := range unknown {
		s.logger.Warn(ctx, "ignoring orb override for unknown aspect type",
			logger.String("aspect", name))
	}

	analyzer, err := analysis.New(
		analysis.WithOrbTable(orbs),
		analysis.WithBalanceThresholds(s.thresholds),
		analysis.WithStrictGrandTrines(s.strictTrines),
		analysis.WithAngleAspects(s.includeAngles),
	)
	if err != nil {
		return err
	}
	s.analyzer = analyzer

	s.reports = repository.NewReportStore(ctx, repository.WithShardCount(s.shardCount))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithBufferSize(s.queueSize),
	)
	s.workers = worker.NewPool(s.workerCount, s.queue, s.analyzer, s.reports)
	s.workers.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("shards", s.shardCount),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping analysis service...")

	if s.queue != nil {
		if q, ok := s.queue.(*queue.InMemoryQueue); ok {
			_ = q.Close()
		}
	}
	if s.workers != nil {
		s.workers.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "analysis service stopped")
}

// SeenAndRecord atomically checks if a chart id was seen and records it if
// not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordChartDuplicate()
	}
	return seen
}

// Unrecord removes a chart id from the seen set, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Submit enqueues a validated chart for asynchronous analysis. Returns
// false on backpressure.
func (s *Service) Submit(ctx context.Context, chartID string, c *chart.Chart) bool {
	ok := s.queue.Enqueue(ctx, model.Submission{ChartID: chartID, Chart: c})
	if !ok {
		s.logger.Warn(ctx, "submission rejected by queue",
			logger.String("chartID", chartID))
	}
	return ok
}

// Analyze runs the engine synchronously and returns the report without
// storing it. Used by the synchronous analysis endpoint.
func (s *Service) Analyze(ctx context.Context, c *chart.Chart) (*analysis.Report, error) {
	return s.analyzer.Analyze(ctx, c)
}

// Report returns the stored report for a chart id.
func (s *Service) Report(ctx context.Context, chartID string) (*analysis.Report, error) {
	return s.reports.Get(ctx, chartID)
}

// Recent returns up to n reports, most recently analyzed first.
func (s *Service) Recent(ctx context.Context, n int) ([]*analysis.Report, error) {
	return s.reports.Recent(ctx, n)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		queueLen := s.queue.Len(ctx)
		totalReports := s.reports.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalReports"] = totalReports

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalReports(totalReports)
	}
	return stats
}

// Size returns the number of chart ids tracked by the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
