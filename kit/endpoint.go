// CLAUDE:SUMMARY Transport-agnostic Endpoint type plus composable middleware (logging, timeout, recovery) shared by HTTP and MCP.
// Package kit holds the transport-neutral plumbing shared by the HTTP API
// and the MCP server: the Endpoint shape, middleware and context keys.
package kit

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"
)

// Endpoint is one operation, independent of the transport that invoked it.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint.
type Middleware func(next Endpoint) Endpoint

// Chain composes middlewares left-to-right: the first one is the outermost
// wrapper.
//
//	ep = Chain(Logging(l, "report"), Timeout(d))(ep)
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// Logging logs every call with its duration, transport and request id.
func Logging(logger *slog.Logger, op string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			attrs := []any{
				"op", op,
				"transport", GetTransport(ctx),
				"request_id", GetRequestID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				logger.WarnContext(ctx, "call failed", append(attrs, "error", err)...)
			} else {
				logger.DebugContext(ctx, "call ok", attrs...)
			}
			return resp, err
		}
	}
}

// Timeout bounds every call with a deadline.
func Timeout(d time.Duration) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}

// Recovery converts a panic below it into an *ErrPanic.
func Recovery(logger *slog.Logger) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (resp any, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "endpoint panic recovered",
						"panic", r,
						"stack", string(debug.Stack()))
					err = &ErrPanic{Value: r}
				}
			}()
			return next(ctx, req)
		}
	}
}

// ErrPanic wraps a recovered panic value as an error.
type ErrPanic struct {
	Value any
}

func (e *ErrPanic) Error() string {
	return "kit: endpoint panicked"
}
