package shield

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/locscope/idgen"
	"github.com/hazyhaar/locscope/kit"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id (the caller's X-Request-ID when
// present, else a generated one), stores it under kit.RequestIDKey, echoes
// it in the response and attaches a per-request logger under LoggerKey.
func RequestID(logger *slog.Logger, gen idgen.Generator) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 128 {
				id = gen()
			}
			w.Header().Set(RequestIDHeader, id)

			reqLog := logger.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			ctx := kit.WithRequestID(r.Context(), id)
			ctx = kit.WithTransport(ctx, "http")
			ctx = context.WithValue(ctx, LoggerKey, reqLog)

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))
			reqLog.Debug("request", "duration_ms", time.Since(start).Milliseconds())
		})
	}
}

// GetLogger retrieves the per-request logger from the context.
// Returns slog.Default() if no logger was set.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
