package middleware

import (
	"log/slog"
	"net/http"

	"github.com/utafrali/DogWalkGo/pkg/logger"
)

// RequestLogger stores a request-scoped logger carrying correlation_id,
// trace_id and span_id in the context; handlers fetch it with
// logger.FromContext. Mount it after RequestLogging and Tracing.
// Authenticate later adds user_id and role to the same logger.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
