// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cavops/muster/internal/adapters/repository"
)

// MovementDependencies defines the interface for movement timeline queries.
type MovementDependencies interface {
	Movements(ctx context.Context, memberID string) ([]MovementEntry, error)
}

// MovementsHandler handles member movement requests.
type MovementsHandler struct {
	deps MovementDependencies
}

// NewMovementsHandler creates a new movements handler.
func NewMovementsHandler(deps MovementDependencies) *MovementsHandler {
	return &MovementsHandler{deps: deps}
}

// HandleGetMovements handles GET /movements/{member_id} requests.
func (h *MovementsHandler) HandleGetMovements(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /movements/
	memberID := strings.TrimPrefix(r.URL.Path, "/movements/")
	if memberID == "" || strings.Contains(memberID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingMember)
		return
	}
	moves, err := h.deps.Movements(r.Context(), memberID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeSnapshotError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moves)
}
