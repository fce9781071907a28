package inspector

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hazyhaar/locscope/kit"
	"github.com/hazyhaar/locscope/locator"
)

// Metrics holds the inspector's Prometheus collectors. Each Inspector owns
// its registry so tests and embedded instances do not collide.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	captures *prometheus.CounterVec
	locators prometheus.Histogram
	dynamic  prometheus.Counter
}

func newMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "locscope_requests_total",
			Help: "Inspector operations by operation, transport and outcome.",
		}, []string{"op", "transport", "outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locscope_request_duration_seconds",
			Help:    "Inspector operation latency.",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 15, 30},
		}, []string{"op"}),
		captures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "locscope_document_loads_total",
			Help: "Documents loaded, by source (html, url) and outcome.",
		}, []string{"source", "outcome"}),
		locators: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "locscope_report_locators",
			Help:    "Locator candidates per element report.",
			Buckets: prometheus.LinearBuckets(1, 2, 7),
		}),
		dynamic: f.NewCounter(prometheus.CounterOpts{
			Name: "locscope_dynamic_locators_total",
			Help: "Locators flagged as dynamic.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// instrument counts and times every call of op.
func (m *Metrics) instrument(op string) kit.Middleware {
	return func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
			m.requests.WithLabelValues(op, kit.GetTransport(ctx), outcome(err)).Inc()
			return resp, err
		}
	}
}

func (m *Metrics) observeLoad(source string, err error) {
	m.captures.WithLabelValues(source, outcome(err)).Inc()
}

func (m *Metrics) observeReport(r *locator.ElementReport) {
	m.locators.Observe(float64(len(r.Locators)))
	for _, l := range r.Locators {
		if l.Dynamic {
			m.dynamic.Inc()
		}
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
