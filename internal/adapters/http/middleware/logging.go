package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/rapidcontext/internal/platform/logging"
)

// procedureParam is the route parameter naming the called procedure.
const procedureParam = "name"

// Logging logs the start and completion of each request with a child logger
// carrying the request and correlation ids. The child logger is stored in
// the context for the handlers and the call engine. Completion entries name
// the matched route and, for procedure routes, the procedure.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			child := logger.With(
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("correlation_id", CorrelationIDFromContext(ctx)),
			)
			ctx = logging.WithLogger(ctx, child)

			child.InfoContext(ctx, "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			if child.Enabled(ctx, slog.LevelDebug) {
				child.DebugContext(ctx, "request headers", headerArgs(r.Header)...)
			}

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rw.statusCode),
				slog.Int64("bytes", rw.written),
				slog.Duration("duration", time.Since(start)),
			}
			if rctx := chi.RouteContext(ctx); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					attrs = append(attrs, slog.String("route", pattern))
				}
				if name := rctx.URLParam(procedureParam); name != "" {
					attrs = append(attrs, slog.String("procedure", name))
				}
			}
			child.InfoContext(ctx, "request completed", attrs...)
		})
	}
}

// headerArgs converts headers to slog arguments, redacting credentials.
func headerArgs(headers http.Header) []any {
	args := make([]any, 0, len(headers))
	for key, vals := range headers {
		value := strings.Join(vals, ",")
		if logging.IsSensitiveHeader(key) {
			value = "[REDACTED]"
		}
		args = append(args, slog.String(key, value))
	}
	return args
}
