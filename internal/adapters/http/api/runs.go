// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	app "github.com/cavops/muster/internal/app"
)

// RunDependencies defines the interface for triggering analysis runs.
type RunDependencies interface {
	StartRun(ctx context.Context, refresh bool) (string, error)
}

// RunsHandler handles run trigger requests.
type RunsHandler struct {
	deps RunDependencies
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps RunDependencies) *RunsHandler {
	return &RunsHandler{deps: deps}
}

// HandlePostRun handles POST /runs?refresh=true requests. The run executes
// in the background; the response only acknowledges the trigger.
func (h *RunsHandler) HandlePostRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	refresh := r.URL.Query().Get("refresh") == "true"
	runID, err := h.deps.StartRun(r.Context(), refresh)
	if err != nil {
		if errors.Is(err, app.ErrRunInProgress) {
			writeError(w, http.StatusConflict, "run_in_progress", err)
			return
		}
		if errors.Is(err, app.ErrNotStarted) {
			writeError(w, http.StatusServiceUnavailable, "not_started", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusAccepted, runResponse{RunID: runID, Status: "started"})
}
