// Package metrics exposes Prometheus collectors for sequencing and HTTP traffic.
package metrics

import (
	"itinerary-route-service/internal/reconcile"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "itinerary"

type Metrics struct {
	reg *prometheus.Registry

	attempts       *prometheus.CounterVec
	oracleErrors   *prometheus.CounterVec
	attemptLatency prometheus.Histogram
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sequencing",
			Name:      "attempts_total",
			Help:      "Sequencing attempts by outcome",
		}, []string{"outcome"}),
		oracleErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sequencing",
			Name:      "oracle_errors_total",
			Help:      "Failed sequencing attempts by error kind",
		}, []string{"kind"}),
		attemptLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sequencing",
			Name:      "attempt_duration_seconds",
			Help:      "Time from dispatch to completion of a sequencing attempt",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 20},
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"method", "route", "status"}),
		httpLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// OnSequenced implements reconcile.Observer.
func (m *Metrics) OnSequenced(e reconcile.Event) {
	m.attempts.WithLabelValues(string(e.Outcome)).Inc()
	if e.Err != nil {
		m.oracleErrors.WithLabelValues(string(e.Err.Kind)).Inc()
	}
	m.attemptLatency.Observe(e.Duration.Seconds())
}

// ObserveRequest records one served HTTP request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
