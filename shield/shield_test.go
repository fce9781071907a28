package shield

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hazyhaar/locscope/idgen"
	"github.com/hazyhaar/locscope/kit"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options: got %q", got)
	}
}

func TestMaxBody(t *testing.T) {
	var readErr error
	h := MaxBody(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"html":"<p>too long</p>"}`)))
	if readErr == nil {
		t.Fatal("expected body limit error")
	}
}

func TestRequestID(t *testing.T) {
	var gotID, gotTransport string
	h := RequestID(quietLogger(), idgen.Fixed("req_fixed"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = kit.GetRequestID(r.Context())
		gotTransport = kit.GetTransport(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if gotID != "req_fixed" || rec.Header().Get(RequestIDHeader) != "req_fixed" {
		t.Errorf("generated id: ctx %q, header %q", gotID, rec.Header().Get(RequestIDHeader))
	}
	if gotTransport != "http" {
		t.Errorf("transport: got %q", gotTransport)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if gotID != "caller-42" {
		t.Errorf("propagated id: got %q", gotID)
	}
}

func TestHeadToGet(t *testing.T) {
	var method string
	h := HeadToGet(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodHead, "/health", nil))
	if method != http.MethodGet {
		t.Errorf("method: got %q", method)
	}
}
