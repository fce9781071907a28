package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hazyhaar/locscope/codegen"
	"github.com/hazyhaar/locscope/locator"
	"github.com/hazyhaar/locscope/shield"
)

// Handler returns the HTTP API.
func (in *Inspector) Handler() http.Handler {
	r := chi.NewRouter()
	for _, mw := range shield.DefaultAPIStack(in.logger, in.cfg.HTTP.MaxBody) {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", in.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/report", in.serve("report"))
		r.Post("/tree", in.serve("tree"))
		r.Post("/aria", in.serve("aria"))
		r.Post("/emit", in.serve("emit"))
	})
	return r
}

func (in *Inspector) serve(op string) http.HandlerFunc {
	ep := in.endpoints[op]
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			if tooBig := new(http.MaxBytesError); errors.As(err, &tooBig) {
				writeError(w, http.StatusRequestEntityTooLarge,
					fmt.Errorf("request body exceeds %d bytes", tooBig.Limit))
				return
			}
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
			return
		}
		resp, err := ep(r.Context(), &req)
		if err != nil {
			code := statusFor(err)
			if code >= 500 {
				shield.GetLogger(r.Context()).Error("inspector: request failed", "op", op, "error", err)
			}
			writeError(w, code, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// statusFor maps inspector errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoSource),
		errors.Is(err, ErrNoTarget),
		errors.Is(err, ErrInvalidTarget),
		errors.Is(err, ErrInvalidURL),
		errors.Is(err, codegen.ErrUnsupportedFramework),
		errors.Is(err, locator.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrTargetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBrowserUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ListenAndServe serves the API on cfg.HTTP.Addr until ctx is cancelled,
// then shuts down gracefully.
func (in *Inspector) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              in.cfg.HTTP.Addr,
		Handler:           in.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		in.logger.Info("inspector: http listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("inspector: http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		in.logger.Info("inspector: http shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
