package api

import (
	"net/http"

	"github.com/askdata/askdata/internal/auth"
	"github.com/askdata/askdata/internal/knowledge"
)

type schemaColumn struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
}

type schemaTable struct {
	Name    string         `json:"name"`
	Purpose string         `json:"purpose,omitempty"`
	Columns []schemaColumn `json:"columns"`
}

type schemaTemplate struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Triggers    []string `json:"triggers"`
	Placeholder string   `json:"placeholder"`
}

type schemaResponse struct {
	Dataset   string           `json:"dataset"`
	Title     string           `json:"title,omitempty"`
	Database  string           `json:"database,omitempty"`
	Domain    string           `json:"domain,omitempty"`
	Dialect   string           `json:"dialect"`
	Tables    []schemaTable    `json:"tables"`
	Templates []schemaTemplate `json:"templates"`
	Rules     []string         `json:"rules"`
	Examples  []string         `json:"examples"`
	Prompt    string           `json:"prompt,omitempty"`
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Schema == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "SCHEMA_NOT_CONFIGURED", "no dataset schema is loaded", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	response := describeSchema(deps.Schema)
	if r.URL.Query().Get("format") == "prompt" {
		response.Prompt = deps.Schema.Render()
	}
	writeJSON(w, http.StatusOK, response)
}

func describeSchema(schema *knowledge.Schema) schemaResponse {
	response := schemaResponse{
		Dataset:   schema.Name(),
		Title:     schema.Title(),
		Database:  schema.Database(),
		Domain:    schema.Domain(),
		Dialect:   string(schema.Dialect()),
		Tables:    []schemaTable{},
		Templates: []schemaTemplate{},
		Rules:     schema.Rules(),
		Examples:  schema.Examples(),
	}
	for _, table := range schema.Tables() {
		out := schemaTable{Name: table.Name, Purpose: table.Purpose, Columns: make([]schemaColumn, 0, len(table.Columns))}
		for _, column := range table.Columns {
			out.Columns = append(out.Columns, schemaColumn{Name: column.Name, Role: string(column.Role), Description: column.Description})
		}
		response.Tables = append(response.Tables, out)
	}
	for _, tmpl := range schema.Templates() {
		response.Templates = append(response.Templates, schemaTemplate{
			Name:        tmpl.Name,
			Description: tmpl.Description,
			Triggers:    tmpl.Triggers,
			Placeholder: tmpl.Placeholder,
		})
	}
	return response
}

func handleStats(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Answerer == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QUERY_NOT_CONFIGURED", "query execution is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleAnalyst); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	stats, err := deps.Answerer.QuickStats(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "STATS_FAILED", err.Error(), false, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dataset": deps.datasetName(), "stats": stats})
}
