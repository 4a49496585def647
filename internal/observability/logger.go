// Package observability carries the logger, the request trace context, the HTTP middleware and the
// prometheus collectors of the askdata binaries.
package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/askdata/askdata/internal/config"
)

// NewLogger tags every record with the service, profile and dataset the process serves.
func NewLogger(cfg config.Config, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = io.Discard
	}
	opts := &slog.HandlerOptions{Level: cfg.Observability.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(writer, opts)
	if cfg.Observability.LogJSON {
		handler = slog.NewJSONHandler(writer, opts)
	}
	logger := slog.New(handler).With(
		slog.String("service", cfg.Service.Name),
		slog.String("profile", string(cfg.Profile)),
	)
	if cfg.Knowledge.Dataset != "" {
		logger = logger.With(slog.String("dataset", cfg.Knowledge.Dataset))
	}
	return logger
}

// requestInfo is shared by every context derived from one request, so values set by inner
// middleware are visible to the access log written by outer middleware.
type requestInfo struct {
	traceID string
	subject string
}

type requestInfoKey struct{}

func requestInfoFrom(ctx context.Context) *requestInfo {
	info, _ := ctx.Value(requestInfoKey{}).(*requestInfo)
	return info
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	if info := requestInfoFrom(ctx); info != nil {
		info.traceID = traceID
		return ctx
	}
	return context.WithValue(ctx, requestInfoKey{}, &requestInfo{traceID: traceID})
}

func TraceIDFromContext(ctx context.Context) string {
	if info := requestInfoFrom(ctx); info != nil {
		return info.traceID
	}
	return ""
}

// ContextWithSubject records the authenticated caller of the request.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	if info := requestInfoFrom(ctx); info != nil {
		info.subject = subject
		return ctx
	}
	return context.WithValue(ctx, requestInfoKey{}, &requestInfo{subject: subject})
}

func SubjectFromContext(ctx context.Context) string {
	if info := requestInfoFrom(ctx); info != nil {
		return info.subject
	}
	return ""
}
