// Package metrics provides Prometheus metrics for the business data service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	storeOps        *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec
	backupsTotal    *prometheus.CounterVec
	rateLimited     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizportal_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizportal_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
		storeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizportal_store_operations_total",
				Help: "Business record store operations by outcome",
			},
			[]string{"operation", "result"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bizportal_store_operation_duration_seconds",
				Help:    "Business record store operation latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		backupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bizportal_backups_total",
				Help: "Business record exports to object storage by outcome",
			},
			[]string{"trigger", "result"},
		),
		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "bizportal_rate_limited_requests_total",
				Help: "Requests rejected by the rate limiter",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requestsTotal, m.requestDuration, m.storeOps, m.storeDuration, m.backupsTotal, m.rateLimited)
	}
	return m
}

// RecordRequest records a served HTTP request.
func (m *Metrics) RecordRequest(method, path, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, status).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(seconds)
}

// RecordStoreOp records one load or save against the record store.
func (m *Metrics) RecordStoreOp(operation, result string, seconds float64) {
	if m == nil {
		return
	}
	m.storeOps.WithLabelValues(operation, result).Inc()
	m.storeDuration.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) RecordBackup(trigger, result string) {
	if m == nil {
		return
	}
	m.backupsTotal.WithLabelValues(trigger, result).Inc()
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}
