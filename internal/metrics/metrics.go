// Package metrics holds the Prometheus collectors for the content server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "astroblog"

type Metrics struct {
	reg prometheus.Gatherer

	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	ContentLoadFailures *prometheus.CounterVec
	RecordsLoaded       *prometheus.GaugeVec
	PagesExported       *prometheus.CounterVec
}

// New registers all collectors on reg. A nil reg gets a fresh private
// registry so tests and repeated constructions never collide.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		reg: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern and status code.",
		}, []string{"route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		ContentLoadFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "content",
			Name:      "load_failures_total",
			Help:      "Content source loads that degraded to an empty collection.",
		}, []string{"kind", "reason"}),
		RecordsLoaded: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "content",
			Name:      "records_loaded",
			Help:      "Records returned by the most recent load of each collection.",
		}, []string{"kind"}),
		PagesExported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "export",
			Name:      "pages_total",
			Help:      "Exported pages by outcome (written, unchanged).",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func (m *Metrics) LoadFailed(kind, reason string) {
	if m == nil {
		return
	}
	m.ContentLoadFailures.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) Loaded(kind string, n int) {
	if m == nil {
		return
	}
	m.RecordsLoaded.WithLabelValues(kind).Set(float64(n))
}

func (m *Metrics) Exported(outcome string) {
	if m == nil {
		return
	}
	m.PagesExported.WithLabelValues(outcome).Inc()
}
