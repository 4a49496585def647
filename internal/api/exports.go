package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/askdata/askdata/internal/auth"
	"github.com/askdata/askdata/internal/export"
	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/pipeline"
	"github.com/askdata/askdata/internal/query"
	"github.com/askdata/askdata/internal/storage"
)

// exportRequest carries either a result table to serialize or SQL to run first.
type exportRequest struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	SQL     string   `json:"sql"`
	Archive bool     `json:"archive"`
}

func handleExport(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request exportRequest
	if err := decodeJSON(r, &request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid export request body", false, map[string]any{"details": err.Error()})
		return
	}

	var table *query.Table
	switch {
	case strings.TrimSpace(request.SQL) != "" && len(request.Columns) > 0:
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_EXPORT", "provide either sql or columns and rows, not both", false, nil)
		return
	case strings.TrimSpace(request.SQL) != "":
		if deps.Answerer == nil {
			writeError(r.Context(), w, http.StatusNotImplemented, "QUERY_NOT_CONFIGURED", "query execution is not configured", false, nil)
			return
		}
		answer, err := deps.Answerer.Run(r.Context(), request.SQL, pipeline.ReadOnly())
		if err != nil {
			writeAnswer(w, r, "", answer, err)
			return
		}
		table = answer.Table
	case len(request.Columns) > 0:
		table = &query.Table{Columns: request.Columns, Rows: request.Rows}
	default:
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_EXPORT", "sql or columns are required", false, nil)
		return
	}
	if table == nil || len(table.Columns) == 0 {
		writeError(r.Context(), w, http.StatusUnprocessableEntity, "NOTHING_TO_EXPORT", "the statement returned no result table", false, nil)
		return
	}

	if request.Archive {
		if deps.Exports == nil {
			writeError(r.Context(), w, http.StatusNotImplemented, "ARCHIVE_NOT_CONFIGURED", "export archive is not configured", false, nil)
			return
		}
		info, err := deps.Exports.Save(r.Context(), deps.datasetName(), table)
		if err != nil {
			writeError(r.Context(), w, http.StatusBadGateway, "ARCHIVE_FAILED", err.Error(), true, nil)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"object":    info,
			"file_name": baseName(info.Key),
			"rows":      table.Len(),
		})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error(), false, nil)
		return
	}
	observability.IncrementExport(false)
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(deps.datasetName(), deps.now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func handleListExports(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Exports == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ARCHIVE_NOT_CONFIGURED", "export archive is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	objects, err := deps.Exports.List(r.Context(), deps.datasetName())
	if err != nil {
		writeError(r.Context(), w, http.StatusBadGateway, "ARCHIVE_UNAVAILABLE", err.Error(), true, nil)
		return
	}
	if objects == nil {
		objects = []storage.ObjectInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"dataset": deps.datasetName(), "exports": objects})
}

func handleGetExport(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Exports == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ARCHIVE_NOT_CONFIGURED", "export archive is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	name := r.PathValue("name")
	if name == "" || baseName(name) != name || strings.HasPrefix(name, ".") {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_EXPORT_NAME", "export name must be a plain file name", false, map[string]any{"name": name})
		return
	}

	body, err := deps.Exports.Open(r.Context(), deps.datasetName(), name)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			writeError(r.Context(), w, http.StatusNotFound, "EXPORT_NOT_FOUND", "export not found", false, map[string]any{"name": name})
			return
		}
		writeError(r.Context(), w, http.StatusBadGateway, "ARCHIVE_UNAVAILABLE", err.Error(), true, nil)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil && deps.Logger != nil {
		deps.Logger.WarnContext(r.Context(), "stream export failed", "name", name, "error", err)
	}
}

func baseName(key string) string {
	if i := strings.LastIndexAny(key, `/\`); i >= 0 {
		return key[i+1:]
	}
	return key
}
