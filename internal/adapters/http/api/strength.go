// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cavops/muster/internal/domain/model"
)

// StrengthDependencies defines the interface for strength queries.
type StrengthDependencies interface {
	StrengthOn(ctx context.Context, date time.Time) ([]StrengthEntry, error)
	StrengthRange(ctx context.Context, from, to time.Time) ([]StrengthEntry, error)
}

// StrengthHandler handles daily strength requests.
type StrengthHandler struct {
	deps StrengthDependencies
}

// NewStrengthHandler creates a new strength handler.
func NewStrengthHandler(deps StrengthDependencies) *StrengthHandler {
	return &StrengthHandler{deps: deps}
}

// HandleGetStrength handles GET /strength?date=D and
// GET /strength?from=D&to=D requests. Dates use the YYYY-MM-DD layout.
func (h *StrengthHandler) HandleGetStrength(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	var (
		entries []StrengthEntry
		err     error
	)
	switch {
	case q.Get("date") != "":
		var date time.Time
		if date, err = model.ParseDate(q.Get("date")); err != nil {
			writeError(w, http.StatusBadRequest, "bad_date", fmt.Errorf("%w: %v", ErrBadRequest, err))
			return
		}
		entries, err = h.deps.StrengthOn(r.Context(), date)
	case q.Get("from") != "" && q.Get("to") != "":
		var from, to time.Time
		if from, err = model.ParseDate(q.Get("from")); err != nil {
			writeError(w, http.StatusBadRequest, "bad_date", fmt.Errorf("%w: %v", ErrBadRequest, err))
			return
		}
		if to, err = model.ParseDate(q.Get("to")); err != nil {
			writeError(w, http.StatusBadRequest, "bad_date", fmt.Errorf("%w: %v", ErrBadRequest, err))
			return
		}
		if to.Before(from) {
			writeError(w, http.StatusBadRequest, "bad_range", fmt.Errorf("%w: to before from", ErrBadRequest))
			return
		}
		entries, err = h.deps.StrengthRange(r.Context(), from, to)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: need date or from/to", ErrBadRequest))
		return
	}

	if err != nil {
		writeSnapshotError(w, err)
		return
	}
	if entries == nil {
		entries = []StrengthEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
