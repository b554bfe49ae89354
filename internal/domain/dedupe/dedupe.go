// Package dedupe collapses multi-division entries down to one
// canonical record per athlete identity.
package dedupe

import (
	"sort"

	"github.com/okian/podium/internal/domain/division"
	"github.com/okian/podium/internal/domain/model"
)

// Ranker resolves a division name to its rank. Satisfied by
// *division.Policy.
type Ranker interface {
	Rank(name string) int
}

// Result carries the canonical mapping plus diagnostics about what the
// pass dropped or collapsed.
type Result struct {
	Canonical map[model.Identity]model.Record

	// Skipped counts records dropped for missing Name/Sex/Division.
	Skipped int

	// Collapsed counts records discarded in favor of a lower-division
	// entry for the same identity.
	Collapsed int
}

// deduper holds configuration for Collapse.
type deduper struct {
	ranker Ranker
}

// Option applies a configuration option to the deduper.
type Option func(*deduper)

// WithRanker sets the division ranking policy used for tie-breaking.
func WithRanker(r Ranker) Option {
	return func(d *deduper) {
		if r != nil {
			d.ranker = r
		}
	}
}

// Collapse keeps, for each identity, the record whose division has the
// lowest rank; rank ties keep the first-encountered record, so the
// result is deterministic and order-stable. Records missing an
// identity field are dropped before comparison. The pass is global:
// it must see every record before any winner is final.
func Collapse(records []model.Record, opts ...Option) Result {
	d := &deduper{
		ranker: division.New(),
	}
	for _, opt := range opts {
		opt(d)
	}

	res := Result{
		Canonical: make(map[model.Identity]model.Record, len(records)),
	}
	for _, rec := range records {
		if !rec.Complete() {
			res.Skipped++
			continue
		}
		id := rec.Identity()
		prev, seen := res.Canonical[id]
		if !seen {
			res.Canonical[id] = rec
			continue
		}
		res.Collapsed++
		if d.ranker.Rank(rec.Division) < d.ranker.Rank(prev.Division) {
			res.Canonical[id] = rec
		}
	}
	return res
}

// Duplicate reports an identity entered in more than one division.
type Duplicate struct {
	Identity  model.Identity
	Divisions []string // sorted
}

// Duplicates lists identities that appear under more than one distinct
// division, each with its sorted division list. Incomplete records are
// ignored, matching Collapse.
func Duplicates(records []model.Record) []Duplicate {
	byID := make(map[model.Identity]map[string]struct{})
	for _, rec := range records {
		if !rec.Complete() {
			continue
		}
		id := rec.Identity()
		if byID[id] == nil {
			byID[id] = make(map[string]struct{})
		}
		byID[id][rec.Cohort().Division] = struct{}{}
	}

	var out []Duplicate
	for id, divs := range byID {
		if len(divs) < 2 {
			continue
		}
		names := make([]string, 0, len(divs))
		for name := range divs {
			names = append(names, name)
		}
		sort.Strings(names)
		out = append(out, Duplicate{Identity: id, Divisions: names})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Identity.Name != out[j].Identity.Name {
			return out[i].Identity.Name < out[j].Identity.Name
		}
		return out[i].Identity.Sex < out[j].Identity.Sex
	})
	return out
}
