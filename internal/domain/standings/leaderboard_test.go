package standings_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuilder(t *testing.T) {
	ctx := context.Background()

	Convey("Given a builder with default configuration", t, func() {
		b := standings.NewBuilder()

		Convey("When building from empty input", func() {
			boards := b.Build(ctx, nil)

			Convey("Then no leaderboards should be produced", func() {
				So(boards, ShouldBeEmpty)
			})
		})

		Convey("When building from two cohorts", func() {
			canonical := canonicalOf(
				model.Record{Name: "Alice", Sex: "F", WeightClass: "60", Division: "M1", Total: "261"},
				model.Record{Name: "Bob", Sex: "F", WeightClass: "60", Division: "Open", Total: "245"},
			)
			boards := b.Build(ctx, canonical)

			Convey("Then there should be one board per cohort and metric", func() {
				So(boards, ShouldHaveLength, 2*len(model.Metrics()))
			})

			Convey("And cohorts should appear in display order with metrics in fixed order", func() {
				So(boards[0].Cohort.Division, ShouldEqual, "M1")
				So(boards[0].Metric, ShouldEqual, model.Squat)
				So(boards[1].Metric, ShouldEqual, model.Bench)
				So(boards[2].Metric, ShouldEqual, model.Deadlift)
				So(boards[3].Metric, ShouldEqual, model.Total)
				So(boards[4].Cohort.Division, ShouldEqual, "Open")
			})
		})
	})

	Convey("Given the end-to-end duplicate scenario", t, func() {
		records := []model.Record{
			{Name: "Alice", Sex: "F", Division: "Open", WeightClass: "60", Bodyweight: "55", Squat: "100", Bench: "50", Deadlift: "120", Total: "270", Place: "1"},
			{Name: "Alice", Sex: "F", Division: "M1", WeightClass: "60", Bodyweight: "55", Squat: "95", Bench: "48", Deadlift: "118", Total: "261", Place: "1"},
			{Name: "Bob", Sex: "F", Division: "Open", WeightClass: "60", Bodyweight: "56", Squat: "90", Bench: "45", Deadlift: "110", Total: "245", Place: "2"},
		}

		Convey("When deduping and building", func() {
			res := dedupe.Collapse(records)
			boards := standings.NewBuilder().Build(ctx, res.Canonical)

			byKey := make(map[model.Cohort]map[model.Metric]standings.Leaderboard)
			for _, board := range boards {
				if byKey[board.Cohort] == nil {
					byKey[board.Cohort] = make(map[model.Metric]standings.Leaderboard)
				}
				byKey[board.Cohort][board.Metric] = board
			}

			Convey("Then Alice's canonical record should be the M1 row", func() {
				m1 := byKey[model.Cohort{Sex: "F", WeightClass: "60", Division: "M1"}][model.Total]
				So(m1.Entries, ShouldHaveLength, 1)
				So(m1.Entries[0].Name, ShouldEqual, "Alice")
				So(m1.Entries[0].Total, ShouldEqual, "261")
			})

			Convey("And the Open cohort should hold only Bob", func() {
				open := byKey[model.Cohort{Sex: "F", WeightClass: "60", Division: "Open"}][model.Total]
				So(open.Entries, ShouldHaveLength, 1)
				So(open.Entries[0].Name, ShouldEqual, "Bob")
				So(open.Entries[0].Total, ShouldEqual, "245")
			})
		})
	})

	Convey("Given many cohorts", t, func() {
		canonical := make(map[model.Identity]model.Record)
		for i := 0; i < 40; i++ {
			wc := strconv.Itoa(50 + i)
			for j := 0; j < 5; j++ {
				rec := model.Record{
					Name:        "Lifter-" + wc + "-" + strconv.Itoa(j),
					Sex:         "F",
					Division:    "Open",
					WeightClass: wc,
					Bodyweight:  strconv.Itoa(50 + j),
					Total:       strconv.Itoa(300 + j*10),
				}
				canonical[rec.Identity()] = rec
			}
		}

		Convey("When building serially and in parallel", func() {
			serial := standings.NewBuilder(standings.WithWorkers(1)).Build(ctx, canonical)
			parallel := standings.NewBuilder(standings.WithWorkers(8)).Build(ctx, canonical)

			Convey("Then both should produce identical output", func() {
				So(parallel, ShouldResemble, serial)
			})
		})
	})

	Convey("Given a custom podium size", t, func() {
		canonical := make(map[model.Identity]model.Record)
		for j := 0; j < 5; j++ {
			rec := model.Record{
				Name:        "Lifter-" + strconv.Itoa(j),
				Sex:         "M",
				Division:    "Open",
				WeightClass: "83",
				Total:       strconv.Itoa(400 + j),
			}
			canonical[rec.Identity()] = rec
		}

		Convey("Then every board should honor the configured limit", func() {
			boards := standings.NewBuilder(standings.WithTopN(2)).Build(ctx, canonical)
			for _, board := range boards {
				So(len(board.Entries), ShouldBeLessThanOrEqualTo, 2)
			}
		})
	})

	Convey("Given a canceled context", t, func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		canonical := canonicalOf(
			model.Record{Name: "Alice", Sex: "F", WeightClass: "60", Division: "Open", Total: "261"},
		)

		Convey("Then the build should still terminate", func() {
			boards := standings.NewBuilder(standings.WithWorkers(4)).Build(canceled, canonical)
			So(len(boards), ShouldEqual, len(model.Metrics()))
		})
	})
}
