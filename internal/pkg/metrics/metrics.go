// Package metrics holds the Prometheus collectors of the service. Collectors
// live on their own registry so tests can build as many as they like.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ordertracker"

// Notification outcomes.
const (
	NotificationSent    = "sent"
	NotificationDropped = "dropped"
	NotificationStale   = "stale"
)

type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	orderOperations  *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	openConnections  prometheus.Gauge
	ordersByStage    *prometheus.GaugeVec
	avgDeliverySecs  prometheus.Gauge
	statsRefreshedAt prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		orderOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_operations_total",
			Help:      "Lifecycle operations by outcome.",
		}, []string{"operation", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Realtime deliveries by channel and result.",
		}, []string{"channel", "result"}),
		openConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realtime_connections",
			Help:      "Open realtime connections.",
		}),
		ordersByStage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_orders",
			Help:      "Non-deleted orders by current stage.",
		}, []string{"stage"}),
		avgDeliverySecs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "average_delivery_seconds",
			Help:      "Average time from Order Placed to Delivered over delivered orders.",
		}),
		statsRefreshedAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stats_refreshed_timestamp_seconds",
			Help:      "Unix time of the last successful stats refresh.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.orderOperations,
		m.notifications,
		m.openConnections,
		m.ordersByStage,
		m.avgDeliverySecs,
		m.statsRefreshedAt,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestStarted returns the callback that records the finished request.
func (m *Metrics) RequestStarted() func(method, route string, status int) {
	m.httpInFlight.Inc()
	start := time.Now()
	return func(method, route string, status int) {
		code := strconv.Itoa(status)
		m.httpRequestDuration.WithLabelValues(method, route, code).Observe(time.Since(start).Seconds())
		m.httpRequestsTotal.WithLabelValues(method, route, code).Inc()
		m.httpInFlight.Dec()
	}
}

func (m *Metrics) OrderOperation(operation, outcome string) {
	m.orderOperations.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) Notification(channel, result string) {
	m.notifications.WithLabelValues(channel, result).Inc()
}

func (m *Metrics) ConnectionOpened() { m.openConnections.Inc() }
func (m *Metrics) ConnectionClosed() { m.openConnections.Dec() }

// SetOrderStats replaces the per-stage gauges. Stages absent from counts read zero.
func (m *Metrics) SetOrderStats(counts map[string]int, avgDelivery time.Duration, at time.Time) {
	m.ordersByStage.Reset()
	for stage, n := range counts {
		m.ordersByStage.WithLabelValues(stage).Set(float64(n))
	}
	m.avgDeliverySecs.Set(avgDelivery.Seconds())
	m.statsRefreshedAt.Set(float64(at.Unix()))
}
