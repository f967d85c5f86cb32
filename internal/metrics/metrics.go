// Package metrics holds the Prometheus collectors of alert-srv.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "alert_srv"

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// Alert lifecycle metrics
var (
	AlertsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "created_total",
			Help:      "Alerts created, by severity and area",
		},
		[]string{"severity", "area"},
	)

	AlertTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "transitions_total",
			Help:      "Status transitions, by target status and outcome",
		},
		[]string{"to", "outcome"},
	)

	AcknowledgmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "acknowledgments_total",
			Help:      "Acknowledgment calls, by whether a new entry was recorded",
		},
		[]string{"result"},
	)
)

// Sweeper metrics
var (
	SweepRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "runs_total",
			Help:      "Sweep ticks, by trigger and outcome",
		},
		[]string{"trigger", "outcome"},
	)

	SweepExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "expired_total",
			Help:      "Alerts moved to expired by the sweeper",
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sweeper",
			Name:      "duration_seconds",
			Help:      "Duration of one sweep tick",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Fanout metrics
var (
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "sessions_active",
			Help:      "Connected push sessions",
		},
	)

	PushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "pushes_total",
			Help:      "Per-session pushes, by event and outcome",
		},
		[]string{"event", "outcome"},
	)

	SessionsRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "sessions_rejected_total",
			Help:      "Push sessions refused by the per-user connection limits, by limit",
		},
		[]string{"limit"},
	)

	RouterDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "router_dropped_total",
			Help:      "Alert events dropped because the router queue was full",
		},
	)

	BusMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fanout",
			Name:      "bus_messages_total",
			Help:      "Messages exchanged over the Redis fanout bus, by direction and outcome",
		},
		[]string{"direction", "outcome"},
	)
)

// Outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)
