// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/internal/domain/standings"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to implementations in other
// packages.
type Dependencies interface {
	// Run executes the pipeline on uploaded CSV data.
	Run(ctx context.Context, name string, src io.Reader) (repository.Run, error)

	// Read operations expose the last computed run.
	Latest(ctx context.Context) (repository.Run, error)
	CohortBoards(ctx context.Context, cohort model.Cohort) ([]standings.Leaderboard, error)

	// TopN returns the configured podium size.
	TopN() int
}

// Server wires HTTP routes for the business API.
type Server struct {
	uploadHandler      *UploadHandler
	leaderboardHandler *LeaderboardHandler
	healthHandler      *HealthHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxUploadBytes int64) *Server {
	return &Server{
		uploadHandler:      NewUploadHandler(deps, maxUploadBytes),
		leaderboardHandler: NewLeaderboardHandler(deps),
		healthHandler:      NewHealthHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/", MetricsMiddleware(s.uploadHandler.HandleUpload, "upload"))
	mux.HandleFunc("/leaderboards", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboards, "leaderboards"))
	mux.HandleFunc("/cohorts", MetricsMiddleware(s.leaderboardHandler.HandleGetCohorts, "cohorts"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
