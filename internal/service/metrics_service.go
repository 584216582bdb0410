package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the validation
// queue: HTTP traffic plus the domain counters operators actually watch.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	validations  prometheus.Counter
	rollbacks    prometheus.Counter
	webhooks     *prometheus.CounterVec
	refreshes    *prometheus.CounterVec
	snapshotSize prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	validations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "candidate_validations_total",
		Help: "Total candidate validations recorded",
	})

	rollbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "validation_rollbacks_total",
		Help: "Total validation events rolled back",
	})

	webhooks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_deliveries_total",
		Help: "Webhook notification attempts by outcome",
	}, []string{"status"})

	refreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_refreshes_total",
		Help: "Queue snapshot refreshes by trigger",
	}, []string{"trigger"})

	snapshotSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "queue_snapshot_size",
		Help: "Candidates held in the current in-memory snapshot",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, validations, rollbacks, webhooks, refreshes, snapshotSize, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		validations:     validations,
		rollbacks:       rollbacks,
		webhooks:        webhooks,
		refreshes:       refreshes,
		snapshotSize:    snapshotSize,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordValidation counts a persisted validation event.
func (m *MetricsService) RecordValidation() {
	if m == nil {
		return
	}
	m.validations.Inc()
}

// RecordRollback counts a closed validation event.
func (m *MetricsService) RecordRollback() {
	if m == nil {
		return
	}
	m.rollbacks.Inc()
}

// RecordWebhookDelivery counts a webhook attempt by outcome ("ok"/"failed").
func (m *MetricsService) RecordWebhookDelivery(ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.webhooks.WithLabelValues(status).Inc()
}

// RecordQueueRefresh counts a snapshot load by trigger and records its size.
func (m *MetricsService) RecordQueueRefresh(trigger string, size int) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(trigger).Inc()
	m.snapshotSize.Set(float64(size))
}
