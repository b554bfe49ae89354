// Package service runs the result pipeline end to end: load, dedupe,
// group, rank, store.
package service

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/adapters/source"
	"github.com/okian/podium/internal/domain/dedupe"
	"github.com/okian/podium/internal/domain/division"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// Service wires the pipeline stages together.
type Service struct {
	// Configuration
	topN          int
	workers       int
	divisions     []string
	commentPrefix string
	placedOnly    bool

	// Components, built on Start
	policy  *division.Policy
	reader  *source.Reader
	builder *standings.Builder
	store   repository.Store

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTopN sets the podium size per leaderboard.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithWorkers sets the number of goroutines ranking cohorts.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithDivisions sets the division preference order.
func WithDivisions(order []string) Option {
	return func(s *Service) {
		if len(order) > 0 {
			s.divisions = order
		}
	}
}

// WithCommentPrefix sets the source comment-line marker.
func WithCommentPrefix(prefix string) Option {
	return func(s *Service) {
		s.commentPrefix = prefix
	}
}

// WithPlacedOnly excludes rows without a numeric placement before
// grouping.
func WithPlacedOnly(on bool) Option {
	return func(s *Service) {
		s.placedOnly = on
	}
}

// WithStore sets the run store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		topN:          standings.DefaultTopN,
		workers:       runtime.NumCPU(),
		commentPrefix: "//",
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}

	var policyOpts []division.Option
	if len(s.divisions) > 0 {
		policyOpts = append(policyOpts, division.WithOrder(s.divisions))
	}
	s.policy = division.New(policyOpts...)
	s.reader = source.NewReader(source.WithCommentPrefix(s.commentPrefix))
	s.builder = standings.NewBuilder(
		standings.WithRanker(s.policy),
		standings.WithTopN(s.topN),
		standings.WithWorkers(s.workers),
	)

	return s
}

// TopN returns the configured podium size.
func (s *Service) TopN() int {
	return s.topN
}

// RunFile executes the pipeline on the CSV file at path.
func (s *Service) RunFile(ctx context.Context, path string) (repository.Run, error) {
	records, err := s.reader.ReadFile(path)
	if err != nil {
		return repository.Run{}, err
	}
	return s.run(ctx, path, records)
}

// Run executes the pipeline on raw CSV data.
func (s *Service) Run(ctx context.Context, name string, src io.Reader) (repository.Run, error) {
	records, err := s.reader.Read(src)
	if err != nil {
		return repository.Run{}, err
	}
	return s.run(ctx, name, records)
}

// run is the single-batch transformation: dedupe must see the whole
// input before grouping and ranking fan out.
func (s *Service) run(ctx context.Context, name string, records []model.Record) (repository.Run, error) {
	start := time.Now()
	metrics.AddRowsParsed(len(records))

	if s.placedOnly {
		placed := make([]model.Record, 0, len(records))
		for _, rec := range records {
			if rec.Placed() {
				placed = append(placed, rec)
			}
		}
		s.logger.Debug(ctx, "filtered unplaced rows",
			logger.Int("before", len(records)),
			logger.Int("after", len(placed)),
		)
		records = placed
	}

	res := dedupe.Collapse(records, dedupe.WithRanker(s.policy))
	metrics.AddRowsSkipped(res.Skipped)
	metrics.AddDuplicatesCollapsed(res.Collapsed)

	boards := s.builder.Build(ctx, res.Canonical)
	if err := ctx.Err(); err != nil {
		return repository.Run{}, fmt.Errorf("pipeline aborted: %w", err)
	}

	run := repository.Run{
		ID:         uuid.New().String(),
		Source:     name,
		ReceivedAt: start,
		Boards:     boards,
		Cohorts:    cohortsOf(boards),
		Athletes:   len(res.Canonical),
		Skipped:    res.Skipped,
		Collapsed:  res.Collapsed,
	}
	if err := s.store.Put(ctx, run); err != nil {
		return repository.Run{}, fmt.Errorf("store run: %w", err)
	}

	metrics.UpdateAthleteCount(run.Athletes)
	metrics.UpdateCohortCount(len(run.Cohorts))
	metrics.UpdateLeaderboardCount(len(run.Boards))
	metrics.RecordRun(float64(time.Since(start).Milliseconds()))

	s.logger.Info(ctx, "pipeline run complete",
		logger.String("runID", run.ID),
		logger.String("source", name),
		logger.Int("rows", len(records)),
		logger.Int("athletes", run.Athletes),
		logger.Int("skipped", run.Skipped),
		logger.Int("collapsed", run.Collapsed),
		logger.Int("cohorts", len(run.Cohorts)),
		logger.Int("leaderboards", len(run.Boards)),
	)
	return run, nil
}

// DuplicatesFile reports identities entered in multiple divisions in
// the CSV file at path.
func (s *Service) DuplicatesFile(ctx context.Context, path string) ([]dedupe.Duplicate, error) {
	records, err := s.reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dups := dedupe.Duplicates(records)
	s.logger.Info(ctx, "duplicate scan complete",
		logger.Int("rows", len(records)),
		logger.Int("duplicates", len(dups)),
	)
	return dups, nil
}

// Latest returns the most recent stored run.
func (s *Service) Latest(ctx context.Context) (repository.Run, error) {
	return s.store.Latest(ctx)
}

// CohortBoards returns the latest run's leaderboards for one cohort.
func (s *Service) CohortBoards(ctx context.Context, cohort model.Cohort) ([]standings.Leaderboard, error) {
	return s.store.CohortBoards(ctx, cohort)
}

// cohortsOf lists the distinct cohorts in board order.
func cohortsOf(boards []standings.Leaderboard) []model.Cohort {
	var cohorts []model.Cohort
	for _, b := range boards {
		if len(cohorts) == 0 || cohorts[len(cohorts)-1] != b.Cohort {
			cohorts = append(cohorts, b.Cohort)
		}
	}
	return cohorts
}
