package api

import (
	"net/http"
	"strconv"

	"github.com/askdata/askdata/internal/auth"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

func handleHistory(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.History == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "HISTORY_NOT_CONFIGURED", "ask history is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleOperator); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(r.Context(), w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer", false, map[string]any{"limit": raw})
			return
		}
		limit = min(parsed, maxHistoryLimit)
	}

	entries, err := deps.History.List(r.Context(), limit)
	if err != nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "HISTORY_UNAVAILABLE", err.Error(), true, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "limit": limit})
}
