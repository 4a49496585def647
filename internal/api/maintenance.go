package api

import (
	"net/http"

	"github.com/askdata/askdata/internal/auth"
)

func handleRetentionRun(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Maintenance == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "MAINTENANCE_NOT_CONFIGURED", "maintenance is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleOperator); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	summary, err := deps.Maintenance.RunRetentionOnce(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "RETENTION_FAILED", err.Error(), true, map[string]any{"summary": summary})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "completed", "summary": summary})
}

func handleIntegrityRun(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Maintenance == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "MAINTENANCE_NOT_CONFIGURED", "maintenance is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleOperator); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	summary, err := deps.Maintenance.RunIntegrityCheckOnce(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusConflict, "INTEGRITY_CHECK_FAILED", err.Error(), false, map[string]any{"summary": summary})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "completed", "summary": summary})
}
