package standings

import (
	"context"
	"runtime"

	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/division"
	"github.com/okian/podium/internal/domain/model"
)

// Leaderboard is the terminal artifact: one cohort, one metric, and
// up to topN records in rank order. Build-once, read-only.
type Leaderboard struct {
	Cohort  model.Cohort
	Metric  model.Metric
	Entries []model.Record
}

// Builder assembles leaderboards from canonical records.
type Builder struct {
	ranker  dedupe.Ranker
	topN    int
	workers int
	metrics []model.Metric
}

// BuilderOption applies a configuration option to the Builder.
type BuilderOption func(*Builder)

// WithRanker sets the division ranking policy used for cohort order.
func WithRanker(r dedupe.Ranker) BuilderOption {
	return func(b *Builder) {
		if r != nil {
			b.ranker = r
		}
	}
}

// WithTopN sets the podium size per leaderboard.
func WithTopN(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.topN = n
		}
	}
}

// WithWorkers sets the number of goroutines ranking cohorts. Cohorts
// are independent once deduplication is done, so ranking fans out
// freely; 1 keeps the build single-threaded.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithMetrics overrides the ranked metrics and their order.
func WithMetrics(metrics []model.Metric) BuilderOption {
	return func(b *Builder) {
		if len(metrics) > 0 {
			b.metrics = metrics
		}
	}
}

// NewBuilder creates a Builder with default configuration.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		ranker:  division.New(),
		topN:    DefaultTopN,
		workers: runtime.NumCPU(),
		metrics: model.Metrics(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Build groups canonical records into cohorts and produces one
// leaderboard per (cohort, metric) pair: cohorts in display order,
// metrics in their fixed order. Each metric is ranked independently
// from the full cohort membership. Empty input yields an empty slice,
// never an error.
func (b *Builder) Build(ctx context.Context, canonical map[model.Identity]model.Record) []Leaderboard {
	groups := Group(canonical)

	keys := make([]model.Cohort, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	keys = SortCohorts(keys, b.ranker)

	boards := make([]Leaderboard, len(keys)*len(b.metrics))
	if b.workers <= 1 || len(keys) <= 1 {
		for i, key := range keys {
			b.rankCohort(boards, i, key, groups[key])
		}
		return boards
	}

	// Fan out per cohort. Each worker owns disjoint slots of the
	// result slice, so the merge needs no synchronization beyond the
	// wait.
	work := make(chan int)
	done := make(chan struct{})
	workers := b.workers
	if workers > len(keys) {
		workers = len(keys)
	}
	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := range work {
				b.rankCohort(boards, i, keys[i], groups[keys[i]])
			}
		}()
	}

feed:
	for i := range keys {
		select {
		case <-ctx.Done():
			break feed
		case work <- i:
		}
	}
	close(work)
	for w := 0; w < workers; w++ {
		<-done
	}
	return boards
}

// rankCohort fills the result slots for one cohort across all metrics.
func (b *Builder) rankCohort(boards []Leaderboard, idx int, key model.Cohort, records []model.Record) {
	for m, metric := range b.metrics {
		boards[idx*len(b.metrics)+m] = Leaderboard{
			Cohort:  key,
			Metric:  metric,
			Entries: TopN(records, metric, b.topN),
		}
	}
}
