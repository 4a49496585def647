package api

import (
	"net/http"
	"strings"

	"github.com/askdata/askdata/internal/auth"
	"github.com/askdata/askdata/internal/conversation"
)

func handleGetSession(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Conversations == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SESSIONS_NOT_CONFIGURED", "conversation sessions are not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	turns := deps.Conversations.Turns(id)
	if len(turns) == 0 {
		writeError(r.Context(), w, http.StatusNotFound, "SESSION_NOT_FOUND", "session not found", false, map[string]any{"session_id": id})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"session_id": id, "turns": turns})
}

func handleDeleteSession(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Conversations == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SESSIONS_NOT_CONFIGURED", "conversation sessions are not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SESSION_REQUIRED", conversation.ErrSessionRequired.Error(), false, nil)
		return
	}
	deps.Conversations.Clear(id)
	w.WriteHeader(http.StatusNoContent)
}
