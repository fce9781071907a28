// Package shield provides the HTTP middleware stack in front of the
// locscope API: security headers, body limits, request ids with a
// per-request logger, and HEAD handling.
//
// Usage:
//
//	r := chi.NewRouter()
//	for _, mw := range shield.DefaultAPIStack(logger, 4<<20) {
//	    r.Use(mw)
//	}
package shield

import (
	"log/slog"
	"net/http"

	"github.com/hazyhaar/locscope/idgen"
)

type contextKey string

// LoggerKey is the context key for the per-request structured logger.
const LoggerKey contextKey = "shield_logger"

// DefaultAPIStack returns the standard middleware stack for a JSON API.
// Order: HeadToGet → SecurityHeaders → MaxBody → RequestID.
func DefaultAPIStack(logger *slog.Logger, maxBody int64) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		HeadToGet,
		SecurityHeaders(DefaultHeaders()),
		MaxBody(maxBody),
		RequestID(logger, idgen.Prefixed("req_", idgen.Default)),
	}
}
