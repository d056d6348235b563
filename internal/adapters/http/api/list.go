// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// Default page size when no limit query parameter is given.
const defaultListLimit = 20

// ListDependencies defines the interface for listing recent tasks.
type ListDependencies interface {
	Recent(ctx context.Context, limit int) ([]Task, error)
}

// ListHandler handles recent evaluation listings.
type ListHandler struct {
	deps     ListDependencies
	maxLimit int
}

// NewListHandler creates a new list handler.
func NewListHandler(deps ListDependencies, maxLimit int) *ListHandler {
	return &ListHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleListEvaluations handles GET /evaluations?limit=N requests.
// Results come back newest first.
func (h *ListHandler) HandleListEvaluations(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_evaluations"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := defaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		n = parsed
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
		return
	}
	tasks, err := h.deps.Recent(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}
