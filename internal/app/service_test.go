package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	repository "github.com/astrium/natal/internal/adapters/repository"
	app "github.com/astrium/natal/internal/app"
	chart "github.com/astrium/natal/internal/domain/chart"
	logging "github.com/astrium/natal/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

// testChart builds a minimal valid chart with Sun and Moon placed.
func testChart(t *testing.T) *chart.Chart {
	t.Helper()
	houses := make(map[int]float64, chart.HouseCount)
	for h := 1; h <= chart.HouseCount; h++ {
		houses[h] = float64(h-1) * 30
	}
	c, err := chart.New(chart.Input{
		Bodies: map[string]chart.BodyInput{
			"Sun":  {Longitude: 125.5, House: 5},
			"Moon": {Longitude: 5.5, House: 1},
		},
		Houses: houses,
		Angles: map[string]float64{
			"ascendant":  0,
			"midheaven":  270,
			"descendant": 180,
			"imum_coeli": 90,
		},
	})
	if err != nil {
		t.Fatalf("failed to build test chart: %v", err)
	}
	return c
}

func TestServiceLifecycle(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a new service", t, func() {
		ctx := context.Background()
		svc := app.New(
			app.WithWorkerCount(2),
			app.WithQueueSize(16),
			app.WithDedupeSize(64),
			app.WithShardCount(2),
		)

		convey.Convey("When started and stopped", func() {
			err := svc.Start(ctx)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then stats reflect the running state", func() {
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldBeTrue)
				convey.So(stats["workerCount"], convey.ShouldEqual, 2)
				convey.So(stats["queueSize"], convey.ShouldEqual, 16)
				convey.So(stats["queueLength"], convey.ShouldEqual, 0)
				convey.So(stats["totalReports"], convey.ShouldEqual, 0)
			})

			convey.Convey("And a second Start is a no-op", func() {
				convey.So(svc.Start(ctx), convey.ShouldBeNil)
			})

			svc.Stop()

			convey.Convey("Then stats reflect the stopped state", func() {
				stats := svc.GetStats()
				convey.So(stats["started"], convey.ShouldBeFalse)
			})

			convey.Convey("And a second Stop is safe", func() {
				svc.Stop()
			})
		})
	})
}

func TestServiceSubmission(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(
			app.WithWorkerCount(2),
			app.WithQueueSize(16),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When a chart is submitted", func() {
			c := testChart(t)
			ok := svc.Submit(ctx, "chart-1", c)
			convey.So(ok, convey.ShouldBeTrue)

			// Give the worker time to analyze and store.
			time.Sleep(200 * time.Millisecond)

			convey.Convey("Then the report is retrievable", func() {
				report, err := svc.Report(ctx, "chart-1")
				convey.So(err, convey.ShouldBeNil)
				convey.So(report, convey.ShouldNotBeNil)
				convey.So(report.ChartID, convey.ShouldEqual, "chart-1")
				convey.So(len(report.Dignities), convey.ShouldEqual, 2)
			})

			convey.Convey("Then the report appears in recent results", func() {
				recent, err := svc.Recent(ctx, 10)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(recent), convey.ShouldEqual, 1)
				convey.So(recent[0].ChartID, convey.ShouldEqual, "chart-1")
			})
		})

		convey.Convey("When several charts are submitted", func() {
			c := testChart(t)
			for i := 0; i < 5; i++ {
				ok := svc.Submit(ctx, fmt.Sprintf("chart-%d", i), c)
				convey.So(ok, convey.ShouldBeTrue)
			}

			time.Sleep(300 * time.Millisecond)

			convey.Convey("Then all reports are stored", func() {
				stats := svc.GetStats()
				convey.So(stats["totalReports"], convey.ShouldEqual, 5)

				recent, err := svc.Recent(ctx, 10)
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(recent), convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When an unknown report is requested", func() {
			_, err := svc.Report(ctx, "no-such-chart")

			convey.Convey("Then the not-found sentinel is returned", func() {
				convey.So(errors.Is(err, repository.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

func TestServiceDeduplication(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithWorkerCount(1), app.WithDedupeSize(8))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When a chart id is recorded twice", func() {
			first := svc.SeenAndRecord(ctx, "chart-1")
			second := svc.SeenAndRecord(ctx, "chart-1")

			convey.Convey("Then only the second sighting is a duplicate", func() {
				convey.So(first, convey.ShouldBeFalse)
				convey.So(second, convey.ShouldBeTrue)
				convey.So(svc.Size(), convey.ShouldEqual, 1)
			})

			convey.Convey("And unrecording allows a retry", func() {
				svc.Unrecord(ctx, "chart-1")
				convey.So(svc.SeenAndRecord(ctx, "chart-1"), convey.ShouldBeFalse)
			})
		})
	})
}

func TestServiceAnalyze(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithWorkerCount(1))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When a chart is analyzed synchronously", func() {
			report, err := svc.Analyze(ctx, testChart(t))

			convey.Convey("Then the report is returned without being stored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(report, convey.ShouldNotBeNil)
				convey.So(len(report.Dignities), convey.ShouldEqual, 2)

				stats := svc.GetStats()
				convey.So(stats["totalReports"], convey.ShouldEqual, 0)
			})
		})
	})
}

func TestServiceBackpressure(t *testing.T) {
	_ = logging.Init()

	convey.Convey("Given a service with a single-slot queue", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithWorkerCount(1), app.WithQueueSize(1))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		convey.Convey("When submissions outpace the queue capacity", func() {
			c := testChart(t)
			accepted := 0
			for i := 0; i < 200; i++ {
				if svc.Submit(ctx, fmt.Sprintf("chart-%d", i), c) {
					accepted++
				}
			}

			convey.Convey("Then the queue sheds load instead of blocking", func() {
				convey.So(accepted, convey.ShouldBeGreaterThan, 0)
				convey.So(accepted, convey.ShouldBeLessThanOrEqualTo, 200)
			})
		})
	})
}
