package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/askdata/askdata/internal/observability"
)

type contextKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(Identity)
	return identity, ok
}

// Middleware rejects requests without a valid key and stores the caller's identity in the request
// context. The subject is added to the log attributes of later handlers through the trace context.
func Middleware(logger *slog.Logger, validator APIKeyValidator) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := extractAPIKey(r)
			if apiKey == "" {
				observability.IncrementAuthFailure("missing_key")
				writeUnauthorized(w, r, "missing_key", "API key required: send X-API-Key or Authorization: Bearer")
				return
			}

			identity, ok := validator.Validate(r.Context(), apiKey)
			if !ok {
				observability.IncrementAuthFailure("invalid_key")
				logger.WarnContext(r.Context(), "rejected api key",
					slog.String("trace_id", observability.TraceIDFromContext(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				writeUnauthorized(w, r, "invalid_key", "invalid API key")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			ctx = observability.ContextWithSubject(ctx, identity.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractAPIKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	scheme, token, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, reason, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="askdata"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error_code": "UNAUTHORIZED",
		"message":    message,
		"retryable":  false,
		"context":    map[string]any{"reason": reason},
		"trace_id":   observability.TraceIDFromContext(r.Context()),
	})
}
