package inspector

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, srv *httptest.Server, path string, body any) (*http.Response, []byte) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestHTTP_Health(t *testing.T) {
	srv := httptest.NewServer(newTestInspector(t, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestHTTP_Report(t *testing.T) {
	srv := httptest.NewServer(newTestInspector(t, nil).Handler())
	defer srv.Close()

	resp, body := postJSON(t, srv, "/api/report", Request{HTML: loginPage, Target: "button"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got struct {
		Tag      string `json:"tag"`
		Locators []struct {
			Kind          string `json:"kind"`
			Expression    string `json:"expression"`
			Score         int    `json:"score"`
			StabilityTier string `json:"stabilityTier"`
		} `json:"locators"`
		Code []struct {
			Code string `json:"code"`
		} `json:"code"`
		DOMSnippet string `json:"domSnippet"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "button", got.Tag)
	require.NotEmpty(t, got.Locators)
	assert.Equal(t, "role", got.Locators[0].Kind)
	assert.Equal(t, `role="button"`, got.Locators[0].Expression)
	assert.Equal(t, "Excellent", got.Locators[0].StabilityTier)
	assert.Equal(t, `page.getByRole('button', { name: 'Log in' })`, got.Code[0].Code)
	assert.Equal(t, "testid", got.Locators[1].Kind)
	assert.Equal(t, `page.getByTestId('login-btn')`, got.Code[1].Code)
	assert.Contains(t, got.DOMSnippet, "login-btn")
}

func TestHTTP_TreeAriaEmit(t *testing.T) {
	srv := httptest.NewServer(newTestInspector(t, nil).Handler())
	defer srv.Close()

	resp, body := postJSON(t, srv, "/api/tree", Request{HTML: loginPage})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.True(t, strings.HasPrefix(string(body), `{"type":"element","tag":"html"`))

	resp, body = postJSON(t, srv, "/api/aria", Request{URL: "https://app.test/login"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var snap struct {
		TotalNodes int    `json:"totalNodes"`
		URL        string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, 6, snap.TotalNodes)
	assert.Equal(t, "https://app.test/login", snap.URL)

	resp, body = postJSON(t, srv, "/api/emit", Request{HTML: loginPage, Target: "button", Framework: "selenium"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `driver.find_element(By.CSS_SELECTOR, '[data-testid=\"login-btn\"]')`)
}

func TestHTTP_ErrorStatus(t *testing.T) {
	in := newTestInspector(t, &fakeLoader{err: errors.New("chrome not found")})
	srv := httptest.NewServer(in.Handler())
	defer srv.Close()

	cases := []struct {
		name string
		path string
		body any
		want int
	}{
		{"no source", "/api/tree", Request{}, http.StatusBadRequest},
		{"bad target", "/api/report", Request{HTML: loginPage, Target: "div["}, http.StatusBadRequest},
		{"bad framework", "/api/emit", Request{HTML: loginPage, Target: "button", Framework: "cypress"}, http.StatusBadRequest},
		{"not found", "/api/report", Request{HTML: loginPage, Target: "table"}, http.StatusNotFound},
		{"browser down", "/api/aria", Request{URL: "https://app.test/"}, http.StatusServiceUnavailable},
		{"metadata url", "/api/aria", Request{URL: "http://169.254.169.254/latest/"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := postJSON(t, srv, tc.path, tc.body)
			assert.Equal(t, tc.want, resp.StatusCode, string(body))

			var e map[string]string
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e["error"])
		})
	}

	resp, err := http.Post(srv.URL+"/api/report", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_Metrics(t *testing.T) {
	srv := httptest.NewServer(newTestInspector(t, nil).Handler())
	defer srv.Close()

	postJSON(t, srv, "/api/report", Request{HTML: loginPage, Target: "button"})

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `locscope_requests_total{op="report",outcome="ok",transport="http"} 1`)
	assert.Contains(t, string(body), "locscope_report_locators_count 1")
}

func TestHTTP_BodyTooLarge(t *testing.T) {
	in := newTestInspector(t, nil)
	in.cfg.HTTP.MaxBody = 256
	srv := httptest.NewServer(in.Handler())
	defer srv.Close()

	resp, body := postJSON(t, srv, "/api/tree", Request{HTML: "<p>" + strings.Repeat("x", 1024) + "</p>"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode, string(body))
	assert.Contains(t, string(body), "256 bytes")

	resp, body = postJSON(t, srv, "/api/tree", Request{HTML: "<p>small</p>"})
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
}
