// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cavops/muster/internal/adapters/repository"
	"github.com/cavops/muster/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// StartRun launches an analysis run in the background.
	StartRun(ctx context.Context, refresh bool) (string, error)

	// Read operations expose the last published snapshot.
	StrengthOn(ctx context.Context, date time.Time) ([]StrengthEntry, error)
	StrengthRange(ctx context.Context, from, to time.Time) ([]StrengthEntry, error)
	Retention(ctx context.Context) ([]RetentionEntry, error)
	Movements(ctx context.Context, memberID string) ([]MovementEntry, error)
	Summary(ctx context.Context) (types.RunSummary, error)
}

// Read shapes returned by snapshot queries.
type (
	StrengthEntry  = types.StrengthEntry
	RetentionEntry = types.RetentionEntry
	MovementEntry  = types.MovementEntry
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	metricsHandler   *MetricsHandler
	statsHandler     *StatsHandler
	runsHandler      *RunsHandler
	strengthHandler  *StrengthHandler
	retentionHandler *RetentionHandler
	movementsHandler *MovementsHandler
	summaryHandler   *SummaryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		metricsHandler:   NewMetricsHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		runsHandler:      NewRunsHandler(deps),
		strengthHandler:  NewStrengthHandler(deps),
		retentionHandler: NewRetentionHandler(deps),
		movementsHandler: NewMovementsHandler(deps),
		summaryHandler:   NewSummaryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.metricsHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandlePostRun, "runs"))
	mux.HandleFunc("/strength", MetricsMiddleware(s.strengthHandler.HandleGetStrength, "strength"))
	mux.HandleFunc("/retention", MetricsMiddleware(s.retentionHandler.HandleGetRetention, "retention"))
	mux.HandleFunc("/movements/", MetricsMiddleware(s.movementsHandler.HandleGetMovements, "movements"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
}

type runResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
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

// writeSnapshotError maps snapshot-read failures to status codes: no run
// published yet is 404, everything else 500.
func writeSnapshotError(w http.ResponseWriter, err error) {
	if errors.Is(err, repository.ErrNoRun) {
		writeError(w, http.StatusNotFound, "no_run", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
