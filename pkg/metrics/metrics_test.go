package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "natal")
				So(manager.subsystem, ShouldEqual, "analysis")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "test-namespace")
				So(manager.subsystem, ShouldEqual, "test-subsystem")
			})
		})

		Convey("When options carry zero values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRegistry(registry),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "natal")
				So(manager.subsystem, ShouldEqual, "analysis")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When getting the registry", func() {
			registry := GetRegistry()

			Convey("Then it should not be nil", func() {
				So(registry, ShouldNotBeNil)
			})

			Convey("And gathering should succeed", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When recording analysis metrics", func() {
			Convey("Then it should record analyzed charts", func() {
				So(func() {
					RecordChartAnalyzed()
					RecordChartAnalyzed()
				}, ShouldNotPanic)
			})

			Convey("And it should record duplicate charts", func() {
				So(func() {
					RecordChartDuplicate()
				}, ShouldNotPanic)
			})

			Convey("And it should record analysis latency", func() {
				So(func() {
					RecordAnalysisLatency(1.5)
					RecordAnalysisLatency(12.0)
				}, ShouldNotPanic)
			})

			Convey("And it should record analysis errors", func() {
				So(func() {
					RecordAnalysisError()
				}, ShouldNotPanic)
			})

			Convey("And it should record detected aspects and patterns", func() {
				So(func() {
					RecordAspectsDetected(14)
					RecordPatternDetected("stellium")
					RecordPatternDetected("grand_trine")
					RecordPatternDetected("t_square")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording operational metrics", func() {
			Convey("Then it should update gauges", func() {
				So(func() {
					UpdateQueueSize(1000)
					UpdateQueueCapacity(10000)
					UpdateWorkerCount(8)
					UpdateTotalReports(500)
					UpdateStoreShardCount(8)
				}, ShouldNotPanic)
			})

			Convey("And it should record queue activity", func() {
				So(func() {
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
					RecordWorkerError()
				}, ShouldNotPanic)
			})

			Convey("And it should record store latencies", func() {
				So(func() {
					RecordStorePutLatency(0.2)
					RecordStoreGetLatency(0.1)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then it should record requests and durations", func() {
				So(func() {
					RecordHTTPRequest("charts", "POST", "202")
					RecordHTTPRequestDuration("charts", "POST", "202", 3.4)
					RecordErrorByEndpoint("charts", "POST", "bad_request")
					RecordErrorByComponent("worker", "analysis")
				}, ShouldNotPanic)
			})
		})

		Convey("When recording system metrics", func() {
			Convey("Then it should update system gauges", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024)
					UpdateSystemGoroutineCount(42)
					RecordSystemGCPauseTime(0.05)
				}, ShouldNotPanic)
			})
		})
	})
}
