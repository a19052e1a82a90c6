package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains all the Prometheus metrics for the application. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Scan metrics
	ScansTotal      *prometheus.CounterVec
	ScanErrorsTotal *prometheus.CounterVec

	// Signal metrics
	SignalDuration      *prometheus.HistogramVec
	SignalFailuresTotal *prometheus.CounterVec

	// Store metrics
	StoreDroppedTotal prometheus.Counter
	StoreWritesTotal  *prometheus.CounterVec
}

// New creates and registers all metrics on a dedicated registry, along
// with the Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)
	buckets := []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

	return &Metrics{
		registry: registry,

		ScansTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urlsentinel_scans_total",
				Help: "Total number of completed scans",
			},
			[]string{"risk_level", "url_type"},
		),
		ScanErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urlsentinel_scan_errors_total",
				Help: "Total number of rejected scan inputs",
			},
			[]string{"kind"},
		),

		SignalDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "urlsentinel_signal_duration_seconds",
				Help:    "Time spent collecting each scan signal",
				Buckets: buckets,
			},
			[]string{"signal"},
		),
		SignalFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urlsentinel_signal_failures_total",
				Help: "Total number of signals that failed and were scored as neutral",
			},
			[]string{"signal"},
		),

		StoreDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "urlsentinel_store_dropped_total",
				Help: "Total number of scan records dropped because the write queue was full",
			},
		),
		StoreWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "urlsentinel_store_writes_total",
				Help: "Total number of scan record writes by outcome",
			},
			[]string{"status"},
		),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveSignal(signal string, duration time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.SignalDuration.WithLabelValues(signal).Observe(duration.Seconds())
	if failed {
		m.SignalFailuresTotal.WithLabelValues(signal).Inc()
	}
}

func (m *Metrics) ScanCompleted(riskLevel, urlType string) {
	if m == nil {
		return
	}
	m.ScansTotal.WithLabelValues(riskLevel, urlType).Inc()
}

func (m *Metrics) ScanRejected(kind string) {
	if m == nil {
		return
	}
	m.ScanErrorsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) StoreDropped() {
	if m == nil {
		return
	}
	m.StoreDroppedTotal.Inc()
}

func (m *Metrics) StoreWrite(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.StoreWritesTotal.WithLabelValues(status).Inc()
}
