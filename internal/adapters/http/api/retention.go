// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// RetentionDependencies defines the interface for retention queries.
type RetentionDependencies interface {
	Retention(ctx context.Context) ([]RetentionEntry, error)
}

// RetentionHandler handles cohort retention requests.
type RetentionHandler struct {
	deps RetentionDependencies
}

// NewRetentionHandler creates a new retention handler.
func NewRetentionHandler(deps RetentionDependencies) *RetentionHandler {
	return &RetentionHandler{deps: deps}
}

// HandleGetRetention handles GET /retention requests.
func (h *RetentionHandler) HandleGetRetention(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	entries, err := h.deps.Retention(r.Context())
	if err != nil {
		writeSnapshotError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
