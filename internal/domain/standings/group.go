// Package standings partitions canonical records into cohorts and
// ranks them into leaderboards.
package standings

import (
	"sort"
	"strconv"
	"strings"

	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/model"
)

// Group places every canonical record into exactly one cohort bucket
// keyed by its (sex, weight class, division) triple. Bucket order is
// not meaningful; ranking re-sorts.
func Group(canonical map[model.Identity]model.Record) map[model.Cohort][]model.Record {
	groups := make(map[model.Cohort][]model.Record, len(canonical))
	for _, rec := range canonical {
		key := rec.Cohort()
		groups[key] = append(groups[key], rec)
	}
	return groups
}

// SortCohorts returns the cohort keys in display order: sex
// (case-insensitive), weight class (numeric when parseable, else
// lexical), then division rank.
func SortCohorts(cohorts []model.Cohort, ranker dedupe.Ranker) []model.Cohort {
	out := make([]model.Cohort, len(cohorts))
	copy(out, cohorts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		as, bs := strings.ToLower(a.Sex), strings.ToLower(b.Sex)
		if as != bs {
			return as < bs
		}
		if c := compareWeightClass(a.WeightClass, b.WeightClass); c != 0 {
			return c < 0
		}
		return ranker.Rank(a.Division) < ranker.Rank(b.Division)
	})
	return out
}

// compareWeightClass orders weight-class labels numerically when both
// sides parse, falling back to lexical comparison otherwise.
func compareWeightClass(a, b string) int {
	af, aerr := strconv.ParseFloat(strings.TrimSpace(a), 64)
	bf, berr := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}
