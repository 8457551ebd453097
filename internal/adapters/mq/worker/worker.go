// Package worker defines the asynchronous analysis pipeline: workers drain
// the submission queue, run the analysis engine and persist the resulting
// reports in the report store.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/astrium/natal/internal/domain/analysis"
	"github.com/astrium/natal/internal/domain/chart"
	"github.com/astrium/natal/internal/domain/model"
	"github.com/astrium/natal/pkg/logger"
	"github.com/astrium/natal/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Submission aliases the queued payload type for worker consumers.
type Submission = model.Submission

// Analyzer computes a structured report for a validated chart.
type Analyzer interface {
	Analyze(ctx context.Context, c *chart.Chart) (*analysis.Report, error)
}

// Store persists completed reports for later retrieval.
type Store interface {
	Put(ctx context.Context, report *analysis.Report) error
}

// Queue defines how workers receive submissions.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Submission
}

// Worker processes submissions until stopped.
type Worker struct {
	queue    Queue
	analyzer Analyzer
	store    Store
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(queue Queue, analyzer Analyzer, store Store, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		analyzer: analyzer,
		store:    store,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop and returns when the context is canceled,
// the queue is closed, or Shutdown is called.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	submissions := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case s, ok := <-submissions:
			if !ok {
				return
			}
			if err := w.process(ctx, s); err != nil {
				w.logger.Error(ctx, "submission processing failed",
					logger.String("chartID", s.ChartID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process analyzes one submission and stores the report.
func (w *Worker) process(ctx context.Context, s Submission) error {
	start := time.Now()
	report, err := w.analyzer.Analyze(ctx, s.Chart)
	metrics.RecordAnalysisLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordAnalysisError()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "analysis_error")
		return fmt.Errorf("analyze chart %s: %w", s.ChartID, err)
	}
	report.ChartID = s.ChartID

	if err := w.store.Put(ctx, report); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		return fmt.Errorf("store report %s: %w", s.ChartID, err)
	}

	metrics.RecordChartAnalyzed()
	metrics.RecordAspectsDetected(len(report.Aspects))
	for _, p := range report.Patterns {
		metrics.RecordPatternDetected(p.Type)
	}
	return nil
}

// Pool manages a fixed set of workers sharing one queue.
type Pool struct {
	workers []*Worker

	shutdown chan struct{}

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive count falls back to a
// multiple of the CPU count.
func NewPool(workerCount int, queue Queue, analyzer Analyzer, store Store) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	p := &Pool{
		workers:  make([]*Worker, workerCount),
		shutdown: make(chan struct{}),
		logger:   logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewWorker(queue, analyzer, store, WithName("worker-"+strconv.Itoa(i)))
	}

	metrics.UpdateWorkerCount(workerCount)

	return p
}

// Start launches every worker in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals all workers and waits briefly for each to finish.
func (p *Pool) Stop() {
	close(p.shutdown)
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown gracefully shuts down the entire pool, closing the queue first
// so drained workers exit on their own.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.workers[0].queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
