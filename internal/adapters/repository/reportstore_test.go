package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/astrium/natal/internal/adapters/repository"
	"github.com/astrium/natal/internal/domain/analysis"
	. "github.com/smartystreets/goconvey/convey"
)

func report(chartID string) *analysis.Report {
	return &analysis.Report{ChartID: chartID}
}

func TestPutGet(t *testing.T) {
	Convey("Given a fresh report store", t, func() {
		ctx := context.Background()
		store := repository.NewReportStore(ctx)

		Convey("When storing a report", func() {
			r := report("chart-1")
			So(store.Put(ctx, r), ShouldBeNil)

			Convey("Then it can be retrieved", func() {
				got, err := store.Get(ctx, "chart-1")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, r)
				So(store.Count(ctx), ShouldEqual, 1)
			})

			Convey("And storing again replaces it", func() {
				replacement := report("chart-1")
				So(store.Put(ctx, replacement), ShouldBeNil)

				got, err := store.Get(ctx, "chart-1")
				So(err, ShouldBeNil)
				So(got, ShouldEqual, replacement)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When fetching an unknown chart id", func() {
			_, err := store.Get(ctx, "missing")
			So(err, ShouldEqual, repository.ErrNotFound)
		})

		Convey("When storing a nil report", func() {
			So(store.Put(ctx, nil), ShouldEqual, repository.ErrNilReport)
		})

		Convey("When storing a report without a chart id", func() {
			So(store.Put(ctx, &analysis.Report{}), ShouldEqual, repository.ErrEmptyChartID)
		})

		Convey("When fetching with an empty chart id", func() {
			_, err := store.Get(ctx, "")
			So(err, ShouldEqual, repository.ErrEmptyChartID)
		})
	})
}

func TestRecent(t *testing.T) {
	Convey("Given a store with several reports", t, func() {
		ctx := context.Background()
		store := repository.NewReportStore(ctx)
		for i := 1; i <= 5; i++ {
			So(store.Put(ctx, report(fmt.Sprintf("chart-%d", i))), ShouldBeNil)
		}

		Convey("When listing recent reports", func() {
			recent, err := store.Recent(ctx, 3)
			So(err, ShouldBeNil)

			Convey("Then the newest come first", func() {
				So(len(recent), ShouldEqual, 3)
				So(recent[0].ChartID, ShouldEqual, "chart-5")
				So(recent[1].ChartID, ShouldEqual, "chart-4")
				So(recent[2].ChartID, ShouldEqual, "chart-3")
			})
		})

		Convey("When asking for more than stored", func() {
			recent, err := store.Recent(ctx, 50)
			So(err, ShouldBeNil)
			So(len(recent), ShouldEqual, 5)
		})

		Convey("When asking for a non-positive count", func() {
			recent, err := store.Recent(ctx, 0)
			So(err, ShouldBeNil)
			So(recent, ShouldBeEmpty)
		})

		Convey("When a chart is re-analyzed", func() {
			So(store.Put(ctx, report("chart-2")), ShouldBeNil)

			Convey("Then it moves to the front of the listing", func() {
				recent, err := store.Recent(ctx, 2)
				So(err, ShouldBeNil)
				So(recent[0].ChartID, ShouldEqual, "chart-2")
				So(recent[1].ChartID, ShouldEqual, "chart-5")
			})

			Convey("And the count is unchanged", func() {
				So(store.Count(ctx), ShouldEqual, 5)
			})
		})
	})
}

func TestShardCountOption(t *testing.T) {
	Convey("Given a store with a single shard", t, func() {
		ctx := context.Background()
		store := repository.NewReportStore(ctx, repository.WithShardCount(1))

		Convey("When storing across many chart ids", func() {
			for i := 0; i < 20; i++ {
				So(store.Put(ctx, report(fmt.Sprintf("chart-%d", i))), ShouldBeNil)
			}

			Convey("Then all land in the one shard", func() {
				So(store.Count(ctx), ShouldEqual, 20)
				got, err := store.Get(ctx, "chart-13")
				So(err, ShouldBeNil)
				So(got.ChartID, ShouldEqual, "chart-13")
			})
		})
	})
}

func TestConcurrentPuts(t *testing.T) {
	Convey("Given many workers writing at once", t, func() {
		ctx := context.Background()
		store := repository.NewReportStore(ctx)

		const writers = 8
		const perWriter = 50
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWriter; i++ {
					_ = store.Put(ctx, report(fmt.Sprintf("chart-%d-%d", w, i)))
				}
			}(w)
		}
		wg.Wait()

		Convey("Then every report is stored exactly once", func() {
			So(store.Count(ctx), ShouldEqual, writers*perWriter)

			recent, err := store.Recent(ctx, writers*perWriter)
			So(err, ShouldBeNil)
			So(len(recent), ShouldEqual, writers*perWriter)
		})
	})
}
