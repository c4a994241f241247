// Package observability exposes prometheus metrics for the HTTP surface
// and the store.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	storeEvents     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		storeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "memoryvault",
			Name:      "store_events_total",
			Help:      "Store mutations by event type.",
		}, []string{"type"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "memoryvault",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
	registry.MustRegister(m.storeEvents, m.requestDuration)
	return m
}

// CountStoreEvent records one store mutation of the given type
func (m *Metrics) CountStoreEvent(eventType string) {
	m.storeEvents.WithLabelValues(eventType).Inc()
}

// ObserveRequest records one completed HTTP request
func (m *Metrics) ObserveRequest(method, status string, duration time.Duration) {
	m.requestDuration.WithLabelValues(method, status).Observe(duration.Seconds())
}

// Handler serves the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
