// Package repository holds computed runs for later reads. Serve mode
// keeps only the most recent run; there is no persistence across
// process restarts.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
)

// Run is one completed pipeline execution.
type Run struct {
	ID         string // uuid assigned at ingest
	Source     string // file name or upload name
	ReceivedAt time.Time

	Boards  []standings.Leaderboard // display order
	Cohorts []model.Cohort          // display order

	Athletes  int // canonical athletes after dedup
	Skipped   int // rows dropped for missing identity fields
	Collapsed int // multi-division entries collapsed
}

// Store provides read/write access to computed runs.
type Store interface {
	// Put replaces the stored run.
	Put(ctx context.Context, run Run) error

	// Latest returns the most recent run.
	// Returns ErrNoRun when nothing has been computed yet.
	Latest(ctx context.Context) (Run, error)

	// CohortBoards returns the latest run's leaderboards for one
	// cohort, in metric order. Returns ErrNoRun when empty.
	CohortBoards(ctx context.Context, cohort model.Cohort) ([]standings.Leaderboard, error)
}

// MemoryStore implements Store with a single guarded slot.
type MemoryStore struct {
	mu     sync.RWMutex
	latest Run
	loaded bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Put replaces the stored run.
func (s *MemoryStore) Put(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = run
	s.loaded = true
	return nil
}

// Latest returns the most recent run.
func (s *MemoryStore) Latest(_ context.Context) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return Run{}, ErrNoRun
	}
	return s.latest, nil
}

// CohortBoards returns the latest run's leaderboards for one cohort.
func (s *MemoryStore) CohortBoards(_ context.Context, cohort model.Cohort) ([]standings.Leaderboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil, ErrNoRun
	}
	var boards []standings.Leaderboard
	for _, b := range s.latest.Boards {
		if b.Cohort == cohort {
			boards = append(boards, b)
		}
	}
	return boards, nil
}
