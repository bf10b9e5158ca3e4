package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// SyncCycles counts refresh cycles of the polling loop.
	// Labels:
	//   - outcome: "success", "failure"
	SyncCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_sync_cycles_total",
			Help: "Total number of refresh cycles",
		},
		[]string{"outcome"},
	)

	// SyncCycleDuration measures the duration of a refresh cycle.
	SyncCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parking_sync_cycle_duration_seconds",
			Help:    "Duration of refresh cycles in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// LastSuccess is the unix time of the last successful refresh.
	LastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "parking_sync_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful refresh",
		},
	)

	// EndpointUpdates counts endpoint values written to the store.
	EndpointUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_sync_endpoint_updates_total",
			Help: "Total number of endpoint values written",
		},
	)

	// DevicesCreated counts devices created by reconciliation.
	DevicesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parking_sync_devices_created_total",
			Help: "Total number of device subtrees created",
		},
	)

	// Skipped counts nodes left untouched by a refresh.
	// Labels:
	//   - reason: "unmatched_device", "unmatched_group", "missing_endpoint", "foreign_node"
	Skipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_sync_skipped_total",
			Help: "Total number of nodes skipped during refresh",
		},
		[]string{"reason"},
	)

	// SourceRequests counts upstream API calls.
	// Labels:
	//   - endpoint: "summary", "detail"
	//   - outcome: "success", "failure"
	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parking_source_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	// SourceRequestDuration measures upstream API latency.
	SourceRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parking_source_request_duration_seconds",
			Help:    "Duration of upstream API requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	// BreakerState reports the upstream circuit breaker state (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parking_source_breaker_state",
			Help: "Circuit breaker state of the upstream API client",
		},
		[]string{"name"},
	)
)
