// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	RecordsCreated    *prometheus.CounterVec
	CodeConflicts     *prometheus.CounterVec
	EvidenceEntries   *prometheus.CounterVec
	PhotoBytes        prometheus.Counter
	LoginsThrottled   prometheus.Counter
	HTTPRequests      *prometheus.CounterVec
	HTTPRequestLength *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, together with the Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		RecordsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "census_records_created_total",
			Help: "Census records created, by code prefix",
		}, []string{"prefix"}),
		CodeConflicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "census_code_conflicts_total",
			Help: "Census code generation attempts that hit the unique index",
		}, []string{"prefix"}),
		EvidenceEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "census_evidence_entries_total",
			Help: "Evidence entries submitted, by status",
		}, []string{"status"}),
		PhotoBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "census_evidence_photo_bytes_total",
			Help: "Bytes of evidence photos stored",
		}),
		LoginsThrottled: factory.NewCounter(prometheus.CounterOpts{
			Name: "census_logins_throttled_total",
			Help: "Login attempts rejected by the rate limiter",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "census_http_requests_total",
			Help: "HTTP requests, by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		HTTPRequestLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "census_http_request_duration_seconds",
			Help:    "HTTP request latency, by method and route pattern",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route"}),
	}
}

func (m *Metrics) RecordCreated(prefix string) {
	m.RecordsCreated.WithLabelValues(prefix).Inc()
}

func (m *Metrics) CodeConflict(prefix string) {
	m.CodeConflicts.WithLabelValues(prefix).Inc()
}

func (m *Metrics) EvidenceSubmitted(status string) {
	m.EvidenceEntries.WithLabelValues(status).Inc()
}

func (m *Metrics) PhotoStored(bytes int64) {
	if bytes > 0 {
		m.PhotoBytes.Add(float64(bytes))
	}
}

func (m *Metrics) LoginThrottled() {
	m.LoginsThrottled.Inc()
}

// ObserveHTTP records one finished request. route is the matched pattern, never the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestLength.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
