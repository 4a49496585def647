package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/askdata/askdata/internal/auth"
	"github.com/askdata/askdata/internal/config"
	"github.com/askdata/askdata/internal/conversation"
	"github.com/askdata/askdata/internal/history"
	"github.com/askdata/askdata/internal/knowledge"
	"github.com/askdata/askdata/internal/maintenance"
	"github.com/askdata/askdata/internal/nl2sql"
	"github.com/askdata/askdata/internal/observability"
	"github.com/askdata/askdata/internal/pipeline"
	"github.com/askdata/askdata/internal/query"
	"github.com/askdata/askdata/internal/sqlguard"
	"github.com/askdata/askdata/internal/storage"
)

type ReadinessCheck func(ctx context.Context) error

// Answerer is the question answering core the handlers sit in front of.
type Answerer interface {
	Ask(ctx context.Context, question string, opts ...pipeline.Option) (pipeline.Answer, error)
	Run(ctx context.Context, sqlText string, opts ...pipeline.Option) (pipeline.Answer, error)
	Translate(ctx context.Context, question string) (nl2sql.Result, *sqlguard.Statement, error)
	QuickStats(ctx context.Context) ([]pipeline.Stat, error)
}

type ExportArchive interface {
	Save(ctx context.Context, dataset string, table *query.Table) (storage.ObjectInfo, error)
	Open(ctx context.Context, dataset, fileName string) (io.ReadCloser, error)
	List(ctx context.Context, dataset string) ([]storage.ObjectInfo, error)
}

type HistoryLister interface {
	List(ctx context.Context, limit int) ([]history.Entry, error)
}

type MaintenanceRunner interface {
	RunRetentionOnce(ctx context.Context) (maintenance.RetentionSummary, error)
	RunIntegrityCheckOnce(ctx context.Context) (maintenance.IntegritySummary, error)
}

type Dependencies struct {
	Logger            *slog.Logger
	Readiness         ReadinessCheck
	AuthMiddleware    func(http.Handler) http.Handler
	DependencyTimeout time.Duration
	Schema            *knowledge.Schema
	Answerer          Answerer
	Conversations     *conversation.Store
	Exports           ExportArchive
	History           HistoryLister
	Maintenance       MaintenanceRunner
	Clock             func() time.Time
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})

	mux.HandleFunc("GET /v1/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Readiness == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
			return
		}
		timeout := deps.DependencyTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := deps.Readiness(ctx); err != nil {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "NOT_READY", err.Error(), true, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	mux.Handle("GET /v1/metrics", promhttp.Handler())

	protected := http.NewServeMux()
	protected.HandleFunc("GET /v1/schema", func(w http.ResponseWriter, r *http.Request) {
		handleSchema(deps, w, r)
	})
	protected.HandleFunc("GET /v1/stats", func(w http.ResponseWriter, r *http.Request) {
		handleStats(deps, w, r)
	})
	protected.HandleFunc("POST /v1/ask", func(w http.ResponseWriter, r *http.Request) {
		handleAsk(deps, w, r)
	})
	protected.HandleFunc("POST /v1/translate", func(w http.ResponseWriter, r *http.Request) {
		handleTranslate(deps, w, r)
	})
	protected.HandleFunc("POST /v1/query", func(w http.ResponseWriter, r *http.Request) {
		handleQuery(deps, w, r)
	})
	protected.HandleFunc("POST /v1/export", func(w http.ResponseWriter, r *http.Request) {
		handleExport(deps, w, r)
	})
	protected.HandleFunc("GET /v1/exports", func(w http.ResponseWriter, r *http.Request) {
		handleListExports(deps, w, r)
	})
	protected.HandleFunc("GET /v1/exports/{name}", func(w http.ResponseWriter, r *http.Request) {
		handleGetExport(deps, w, r)
	})
	protected.HandleFunc("GET /v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleGetSession(deps, w, r)
	})
	protected.HandleFunc("DELETE /v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		handleDeleteSession(deps, w, r)
	})
	protected.HandleFunc("GET /v1/history", func(w http.ResponseWriter, r *http.Request) {
		handleHistory(deps, w, r)
	})
	protected.HandleFunc("POST /v1/retention/run", func(w http.ResponseWriter, r *http.Request) {
		handleRetentionRun(deps, w, r)
	})
	protected.HandleFunc("POST /v1/integrity/run", func(w http.ResponseWriter, r *http.Request) {
		handleIntegrityRun(deps, w, r)
	})

	var protectedHandler http.Handler = protected
	if cfg.Auth.Required {
		if deps.AuthMiddleware == nil {
			if deps.Logger != nil {
				deps.Logger.Error("auth required but auth middleware missing")
			}
			protectedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(r.Context(), w, http.StatusInternalServerError, "AUTH_MIDDLEWARE_MISSING", "auth middleware is required by configuration", false, nil)
			})
		} else {
			protectedHandler = deps.AuthMiddleware(protectedHandler)
		}
	}
	for _, pattern := range []string{
		"GET /v1/schema",
		"GET /v1/stats",
		"POST /v1/ask",
		"POST /v1/translate",
		"POST /v1/query",
		"POST /v1/export",
		"GET /v1/exports",
		"GET /v1/exports/{name}",
		"GET /v1/sessions/{id}",
		"DELETE /v1/sessions/{id}",
		"GET /v1/history",
		"POST /v1/retention/run",
		"POST /v1/integrity/run",
	} {
		mux.Handle(pattern, protectedHandler)
	}

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares, observability.LoggingMiddleware(deps.Logger))
	}
	return chain(mux, middlewares...)
}

func CheckObjectStoreConfig(cfg config.Config) ReadinessCheck {
	return func(_ context.Context) error {
		if !cfg.ObjectStore.Enabled {
			return nil
		}
		if cfg.ObjectStore.Endpoint == "" {
			return errors.New("object store endpoint is not configured")
		}
		if cfg.ObjectStore.Bucket == "" {
			return errors.New("object store bucket is not configured")
		}
		return nil
	}
}

func CheckCompletionConfig(cfg config.Config) ReadinessCheck {
	return func(_ context.Context) error {
		if !cfg.AI.Enabled {
			return nil
		}
		if cfg.AI.APIKey == "" {
			return errors.New("completion service api key is not configured")
		}
		return nil
	}
}

func CombineReadinessChecks(checks ...ReadinessCheck) ReadinessCheck {
	filtered := make([]ReadinessCheck, 0, len(checks))
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return func(ctx context.Context) error {
		for _, check := range filtered {
			if err := check(ctx); err != nil {
				return err
			}
		}
		return nil
	}
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

// requireRole passes when auth is disabled (no identity) or the identity holds role.
// Operators hold every role.
func requireRole(r *http.Request, role string) error {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return nil
	}
	if identity.Allows(role) {
		return nil
	}
	return fmt.Errorf("missing required role %q", role)
}

// mayMutate reports whether the caller may run statements that change data.
func mayMutate(r *http.Request) bool {
	identity, ok := auth.IdentityFromContext(r.Context())
	return !ok || identity.HasRole(auth.RoleOperator)
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, 8<<20))
	decoder.DisallowUnknownFields()
	decoder.UseNumber()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool, extra map[string]any) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"retryable":  retryable,
		"context":    extra,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}

func (d Dependencies) now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}
	return d.Clock().UTC()
}

func (d Dependencies) datasetName() string {
	if d.Schema == nil {
		return "askdata"
	}
	return d.Schema.Name()
}
