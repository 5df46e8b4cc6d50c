package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus observability primitives for the relay.
type Metrics struct {
	webhookEvents    *prometheus.CounterVec
	webhookRejected  prometheus.Counter
	sinkDeliveries   *prometheus.CounterVec
	sinkDuration     *prometheus.HistogramVec
	customerLookups  *prometheus.CounterVec
	healthFailures   *prometheus.CounterVec
	activityLogDepth prometheus.Gauge
}

// NewMetrics registers and returns Prometheus metrics for the relay.
func NewMetrics() *Metrics {
	webhookEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "failrelay_webhook_events_total",
		Help: "Verified webhook events by type and dispatch outcome.",
	}, []string{"event_type", "outcome"})

	webhookRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "failrelay_webhook_rejected_total",
		Help: "Webhook requests rejected before dispatch.",
	})

	sinkDeliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "failrelay_sink_deliveries_total",
		Help: "Sink delivery outcomes by sink and status.",
	}, []string{"sink", "status"})

	sinkDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "failrelay_sink_delivery_duration_seconds",
		Help:    "Sink delivery roundtrip latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"sink"})

	customerLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "failrelay_customer_lookups_total",
		Help: "Customer enrichment lookups by status.",
	}, []string{"status"})

	healthFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "failrelay_health_failures_total",
		Help: "Health probe failures by dependency.",
	}, []string{"dependency"})

	activityLogDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "failrelay_activity_log_entries",
		Help: "Number of entries currently retained in the activity log.",
	})

	prometheus.MustRegister(
		webhookEvents,
		webhookRejected,
		sinkDeliveries,
		sinkDuration,
		customerLookups,
		healthFailures,
		activityLogDepth,
	)

	return &Metrics{
		webhookEvents:    webhookEvents,
		webhookRejected:  webhookRejected,
		sinkDeliveries:   sinkDeliveries,
		sinkDuration:     sinkDuration,
		customerLookups:  customerLookups,
		healthFailures:   healthFailures,
		activityLogDepth: activityLogDepth,
	}
}

// RecordWebhookEvent counts a verified webhook event.
func (m *Metrics) RecordWebhookEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.webhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// RecordWebhookRejected counts a rejected webhook request.
func (m *Metrics) RecordWebhookRejected() {
	if m == nil {
		return
	}
	m.webhookRejected.Inc()
}

// RecordSinkDelivery records one sink delivery attempt.
func (m *Metrics) RecordSinkDelivery(sink, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.sinkDeliveries.WithLabelValues(sink, status).Inc()
	m.sinkDuration.WithLabelValues(sink).Observe(duration.Seconds())
}

// RecordCustomerLookup counts an enrichment lookup.
func (m *Metrics) RecordCustomerLookup(status string) {
	if m == nil {
		return
	}
	m.customerLookups.WithLabelValues(status).Inc()
}

// RecordHealthFailure counts a failed health probe.
func (m *Metrics) RecordHealthFailure(dependency string) {
	if m == nil {
		return
	}
	m.healthFailures.WithLabelValues(dependency).Inc()
}

// SetActivityLogDepth updates the retained-entries gauge.
func (m *Metrics) SetActivityLogDepth(value int) {
	if m == nil {
		return
	}
	m.activityLogDepth.Set(float64(value))
}
