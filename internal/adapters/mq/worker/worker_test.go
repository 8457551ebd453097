package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	worker "github.com/astrium/natal/internal/adapters/mq/worker"
	analysis "github.com/astrium/natal/internal/domain/analysis"
	chart "github.com/astrium/natal/internal/domain/chart"
	logging "github.com/astrium/natal/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing.
type mockQueue struct {
	submissions chan worker.Submission
}

func newMockQueue() *mockQueue {
	return &mockQueue{
		submissions: make(chan worker.Submission, 10),
	}
}

func (mq *mockQueue) Dequeue(ctx context.Context) <-chan worker.Submission {
	return mq.submissions
}

func (mq *mockQueue) Close() error {
	close(mq.submissions)
	return nil
}

func (mq *mockQueue) add(s worker.Submission) {
	mq.submissions <- s
}

type mockAnalyzer struct {
	mu     sync.RWMutex
	err    error
	calls  int
	report *analysis.Report
}

func newMockAnalyzer() *mockAnalyzer {
	return &mockAnalyzer{report: &analysis.Report{}}
}

func (ma *mockAnalyzer) Analyze(ctx context.Context, c *chart.Chart) (*analysis.Report, error) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.calls++
	if ma.err != nil {
		return nil, ma.err
	}
	// Return a fresh report per call; the worker mutates it.
	r := *ma.report
	return &r, nil
}

func (ma *mockAnalyzer) setError(err error) {
	ma.mu.Lock()
	defer ma.mu.Unlock()
	ma.err = err
}

func (ma *mockAnalyzer) callCount() int {
	ma.mu.RLock()
	defer ma.mu.RUnlock()
	return ma.calls
}

type mockStore struct {
	mu      sync.RWMutex
	reports map[string]*analysis.Report
	err     error
}

func newMockStore() *mockStore {
	return &mockStore{reports: make(map[string]*analysis.Report)}
}

func (ms *mockStore) Put(ctx context.Context, report *analysis.Report) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.err != nil {
		return ms.err
	}
	ms.reports[report.ChartID] = report
	return nil
}

func (ms *mockStore) setError(err error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.err = err
}

func (ms *mockStore) get(chartID string) (*analysis.Report, bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	r, ok := ms.reports[chartID]
	return r, ok
}

func TestWorker(t *testing.T) {
	convey.Convey("Given a new worker", t, func() {
		// Initialize logging for tests
		_ = logging.Init()

		queue := newMockQueue()
		analyzer := newMockAnalyzer()
		store := newMockStore()

		convey.Convey("When creating a worker with default options", func() {
			w := worker.NewWorker(queue, analyzer, store)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a worker with a custom name", func() {
			w := worker.NewWorker(queue, analyzer, store, worker.WithName("test-worker"))

			convey.Convey("Then it should be created successfully", func() {
				convey.So(w, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When running a worker", func() {
			w := worker.NewWorker(queue, analyzer, store)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			go w.Run(ctx)

			// Give worker time to start
			time.Sleep(10 * time.Millisecond)

			convey.Convey("And when processing a submission", func() {
				queue.add(worker.Submission{ChartID: "chart-1"})

				// Give worker time to process
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then the report is stored under the chart id", func() {
					report, stored := store.get("chart-1")
					convey.So(stored, convey.ShouldBeTrue)
					convey.So(report.ChartID, convey.ShouldEqual, "chart-1")
					convey.So(analyzer.callCount(), convey.ShouldEqual, 1)
				})
			})

			convey.Convey("And when analysis fails", func() {
				analyzer.setError(errors.New("analysis error"))

				queue.add(worker.Submission{ChartID: "chart-2"})
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then nothing is stored", func() {
					_, stored := store.get("chart-2")
					convey.So(stored, convey.ShouldBeFalse)
				})
			})

			convey.Convey("And when the store fails", func() {
				store.setError(errors.New("store error"))

				queue.add(worker.Submission{ChartID: "chart-3"})
				time.Sleep(50 * time.Millisecond)

				convey.Convey("Then the worker keeps running", func() {
					store.setError(nil)
					queue.add(worker.Submission{ChartID: "chart-4"})
					time.Sleep(50 * time.Millisecond)

					_, stored := store.get("chart-4")
					convey.So(stored, convey.ShouldBeTrue)
				})
			})
		})

		convey.Convey("When shutting down a worker", func() {
			w := worker.NewWorker(queue, analyzer, store)
			ctx := context.Background()

			go w.Run(ctx)
			time.Sleep(10 * time.Millisecond)

			convey.Convey("Then Shutdown returns once the loop exits", func() {
				shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
				defer cancel()
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})

		convey.Convey("When the queue closes", func() {
			w := worker.NewWorker(queue, analyzer, store)
			ctx := context.Background()

			done := make(chan struct{})
			go func() {
				w.Run(ctx)
				close(done)
			}()
			time.Sleep(10 * time.Millisecond)

			_ = queue.Close()

			convey.Convey("Then the worker drains and exits", func() {
				select {
				case <-done:
				case <-time.After(time.Second):
					t.Fatal("worker did not exit after queue close")
				}
			})
		})
	})
}

func TestPool(t *testing.T) {
	convey.Convey("Given a worker pool", t, func() {
		_ = logging.Init()

		queue := newMockQueue()
		analyzer := newMockAnalyzer()
		store := newMockStore()

		convey.Convey("When creating a pool with an explicit worker count", func() {
			pool := worker.NewPool(4, queue, analyzer, store)

			convey.Convey("Then it should be created successfully", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When creating a pool with a non-positive count", func() {
			pool := worker.NewPool(0, queue, analyzer, store)

			convey.Convey("Then it falls back to a CPU-derived count", func() {
				convey.So(pool, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the pool processes submissions", func() {
			pool := worker.NewPool(3, queue, analyzer, store)
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			pool.Start(ctx)
			time.Sleep(10 * time.Millisecond)

			for _, id := range []string{"a", "b", "c", "d", "e"} {
				queue.add(worker.Submission{ChartID: id})
			}
			time.Sleep(100 * time.Millisecond)

			convey.Convey("Then every submission lands in the store", func() {
				for _, id := range []string{"a", "b", "c", "d", "e"} {
					_, stored := store.get(id)
					convey.So(stored, convey.ShouldBeTrue)
				}
			})

			convey.Convey("And Stop returns promptly", func() {
				stopped := make(chan struct{})
				go func() {
					pool.Stop()
					close(stopped)
				}()
				select {
				case <-stopped:
				case <-time.After(2 * time.Second):
					t.Fatal("pool did not stop in time")
				}
			})
		})
	})
}
