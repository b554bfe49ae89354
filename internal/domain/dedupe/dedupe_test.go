package dedupe_test

import (
	"math/rand"
	"testing"

	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(name, sex, div string) model.Record {
	return model.Record{Name: name, Sex: sex, Division: div, WeightClass: "60"}
}

func TestCollapse(t *testing.T) {
	Convey("Given records for one athlete across divisions", t, func() {
		records := []model.Record{
			rec("Alice", "F", "Open"),
			rec("Alice", "F", "M1"),
		}

		Convey("When collapsing", func() {
			res := dedupe.Collapse(records)

			Convey("Then the lower-ranked division should win", func() {
				So(res.Canonical, ShouldHaveLength, 1)
				So(res.Canonical[model.Identity{Name: "Alice", Sex: "F"}].Division, ShouldEqual, "M1")
				So(res.Collapsed, ShouldEqual, 1)
			})

			Convey("And the winner should not depend on input order", func() {
				reversed := dedupe.Collapse([]model.Record{records[1], records[0]})
				So(reversed.Canonical[model.Identity{Name: "Alice", Sex: "F"}].Division, ShouldEqual, "M1")
			})
		})
	})

	Convey("Given records tied on division rank", t, func() {
		first := rec("Bob", "M", "Open")
		first.Total = "500"
		second := rec("Bob", "M", "Open")
		second.Total = "490"

		Convey("Then the first-encountered record should be kept", func() {
			res := dedupe.Collapse([]model.Record{first, second})
			So(res.Canonical[model.Identity{Name: "Bob", Sex: "M"}].Total, ShouldEqual, "500")
			So(res.Collapsed, ShouldEqual, 1)
		})
	})

	Convey("Given records missing identity fields", t, func() {
		records := []model.Record{
			rec("", "F", "Open"),
			rec("Carol", "", "Open"),
			rec("Carol", "F", ""),
			rec("Carol", "F", "Open"),
		}

		Convey("Then incomplete records should be dropped silently", func() {
			res := dedupe.Collapse(records)
			So(res.Canonical, ShouldHaveLength, 1)
			So(res.Skipped, ShouldEqual, 3)
			So(res.Collapsed, ShouldEqual, 0)
		})
	})

	Convey("Given identities differing only by sex", t, func() {
		records := []model.Record{
			rec("Sam", "F", "Open"),
			rec("Sam", "M", "Open"),
		}

		Convey("Then both should survive as distinct identities", func() {
			res := dedupe.Collapse(records)
			So(res.Canonical, ShouldHaveLength, 2)
		})
	})

	Convey("Given an unknown division competing with a known one", t, func() {
		records := []model.Record{
			rec("Dana", "F", "Masters-X"),
			rec("Dana", "F", "Open"),
		}

		Convey("Then the known division should always win", func() {
			res := dedupe.Collapse(records)
			So(res.Canonical[model.Identity{Name: "Dana", Sex: "F"}].Division, ShouldEqual, "Open")
		})
	})

	Convey("Given the collapse is idempotent", t, func() {
		records := []model.Record{
			rec("Alice", "F", "Open"),
			rec("Alice", "F", "M1"),
			rec("Bob", "M", "Junior"),
		}
		first := dedupe.Collapse(records)

		Convey("When feeding the canonical output back in", func() {
			canonical := make([]model.Record, 0, len(first.Canonical))
			for _, r := range first.Canonical {
				canonical = append(canonical, r)
			}
			second := dedupe.Collapse(canonical)

			Convey("Then the mapping should be unchanged", func() {
				So(second.Canonical, ShouldResemble, first.Canonical)
				So(second.Collapsed, ShouldEqual, 0)
			})
		})
	})

	Convey("Given permutations of a multi-division input", t, func() {
		records := []model.Record{
			rec("Alice", "F", "Open"),
			rec("Alice", "F", "M2"),
			rec("Alice", "F", "Junior"),
			rec("Bob", "M", "M3"),
			rec("Bob", "M", "Open"),
		}

		Convey("Then every permutation should pick the same divisions", func() {
			rng := rand.New(rand.NewSource(1))
			for i := 0; i < 20; i++ {
				shuffled := make([]model.Record, len(records))
				copy(shuffled, records)
				rng.Shuffle(len(shuffled), func(a, b int) {
					shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
				})
				res := dedupe.Collapse(shuffled)
				So(res.Canonical[model.Identity{Name: "Alice", Sex: "F"}].Division, ShouldEqual, "Junior")
				So(res.Canonical[model.Identity{Name: "Bob", Sex: "M"}].Division, ShouldEqual, "M3")
			}
		})
	})
}

func TestDuplicates(t *testing.T) {
	Convey("Given a mix of single and multi-division athletes", t, func() {
		records := []model.Record{
			rec("Alice", "F", "Open"),
			rec("Alice", "F", "M1"),
			rec("Alice", "F", "M1"), // same division twice is not a duplicate
			rec("Bob", "M", "Open"),
			rec("", "F", "Open"),
		}

		Convey("When listing duplicates", func() {
			dups := dedupe.Duplicates(records)

			Convey("Then only multi-division identities should appear", func() {
				So(dups, ShouldHaveLength, 1)
				So(dups[0].Identity, ShouldResemble, model.Identity{Name: "Alice", Sex: "F"})
				So(dups[0].Divisions, ShouldResemble, []string{"M1", "Open"})
			})
		})
	})

	Convey("Given no athlete in more than one division", t, func() {
		records := []model.Record{
			rec("Alice", "F", "Open"),
			rec("Bob", "M", "Open"),
		}

		Convey("Then the report should be empty", func() {
			So(dedupe.Duplicates(records), ShouldBeEmpty)
		})
	})
}
