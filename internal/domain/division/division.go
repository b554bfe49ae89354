// Package division defines the ranking policy used to pick the
// preferred division among duplicates and to order cohorts for display.
package division

import "strings"

// Canonical division order, lowest (most preferred) first.
var canonical = []string{
	"Sub-Junior",
	"Junior",
	"M1",
	"M2",
	"M3",
	"Open",
}

// Policy maps division names to ranks. Lower is "lower" and wins
// deduplication. The zero value is not usable; construct with New.
type Policy struct {
	ranks   map[string]int
	unknown int
}

// Option applies a configuration option to the Policy.
type Option func(*Policy)

// WithOrder replaces the canonical division order. Empty entries are
// ignored; an empty list leaves the default order in place.
func WithOrder(order []string) Option {
	return func(p *Policy) {
		ranks := make(map[string]int, len(order))
		for _, name := range order {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := ranks[name]; !ok {
				ranks[name] = len(ranks)
			}
		}
		if len(ranks) > 0 {
			p.ranks = ranks
			p.unknown = len(ranks)
		}
	}
}

// New creates a Policy with the canonical order and applies options.
func New(opts ...Option) *Policy {
	p := &Policy{
		ranks:   make(map[string]int, len(canonical)),
		unknown: len(canonical),
	}
	for i, name := range canonical {
		p.ranks[name] = i
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Rank returns the rank for a division name. Unknown names receive a
// rank strictly worse than every known division. Pure and total.
func (p *Policy) Rank(name string) int {
	if r, ok := p.ranks[strings.TrimSpace(name)]; ok {
		return r
	}
	return p.unknown
}

// Known reports whether the name is in the configured order.
func (p *Policy) Known(name string) bool {
	_, ok := p.ranks[strings.TrimSpace(name)]
	return ok
}

// Size returns the number of known divisions.
func (p *Policy) Size() int {
	return len(p.ranks)
}
