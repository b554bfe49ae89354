// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
)

// LeaderboardHandler handles leaderboard read requests.
type LeaderboardHandler struct {
	deps Dependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps Dependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// boardResponse is the JSON shape for one leaderboard.
type boardResponse struct {
	Sex         string         `json:"sex"`
	WeightClass string         `json:"weight_class"`
	Division    string         `json:"division"`
	Metric      string         `json:"metric"`
	Entries     []model.Record `json:"entries"`
}

func toBoardResponses(boards []standings.Leaderboard) []boardResponse {
	out := make([]boardResponse, len(boards))
	for i, b := range boards {
		out[i] = boardResponse{
			Sex:         b.Cohort.Sex,
			WeightClass: b.Cohort.WeightClass,
			Division:    b.Cohort.Division,
			Metric:      string(b.Metric),
			Entries:     b.Entries,
		}
	}
	return out
}

// HandleGetLeaderboards handles GET /leaderboards requests. With
// sex, weight_class and division query parameters it returns only
// that cohort's boards.
func (h *LeaderboardHandler) HandleGetLeaderboards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	if q.Has("sex") || q.Has("weight_class") || q.Has("division") {
		cohort := model.Cohort{
			Sex:         q.Get("sex"),
			WeightClass: q.Get("weight_class"),
			Division:    q.Get("division"),
		}
		boards, err := h.deps.CohortBoards(r.Context(), cohort)
		if err != nil {
			h.writeReadError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toBoardResponses(boards))
		return
	}

	run, err := h.deps.Latest(r.Context())
	if err != nil {
		h.writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBoardResponses(run.Boards))
}

// HandleGetCohorts handles GET /cohorts requests, returning the latest
// run's cohorts in display order.
func (h *LeaderboardHandler) HandleGetCohorts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	run, err := h.deps.Latest(r.Context())
	if err != nil {
		h.writeReadError(w, err)
		return
	}

	type cohortResponse struct {
		Sex         string `json:"sex"`
		WeightClass string `json:"weight_class"`
		Division    string `json:"division"`
	}
	out := make([]cohortResponse, len(run.Cohorts))
	for i, c := range run.Cohorts {
		out[i] = cohortResponse{Sex: c.Sex, WeightClass: c.WeightClass, Division: c.Division}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeaderboardHandler) writeReadError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNoRun) {
		writeError(w, http.StatusNotFound, "no_run", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
