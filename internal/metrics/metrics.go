// Package metrics holds the Prometheus collectors shared across the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feed metrics
var (
	// FeedQueriesTotal tracks feed queries by category.
	FeedQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_queries_total",
			Help: "Total feed queries by category",
		},
		[]string{"category"},
	)

	// FeedFallbackTotal counts queries that degraded to the fallback ordering.
	// The feed contract never surfaces this as an error, so the counter is the
	// observable signal for it.
	FeedFallbackTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_fallback_total",
			Help: "Total feed queries that degraded to the fallback ordering",
		},
	)

	// FeedSnapshotSize observes the size of whisper snapshots fed to the engine.
	FeedSnapshotSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_snapshot_size",
			Help:    "Whisper snapshot sizes handed to the feed engine",
			Buckets: []float64{10, 50, 100, 250, 500, 1000},
		},
	)
)

// Whisper lifecycle metrics
var (
	// WhispersCreatedTotal counts accepted whispers by mood.
	WhispersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whispers_created_total",
			Help: "Total whispers created by mood",
		},
		[]string{"mood"},
	)

	// WhispersRejectedTotal counts whispers blocked before insert.
	WhispersRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "whispers_rejected_total",
			Help: "Total whispers rejected by reason (moderation, rate_limit)",
		},
		[]string{"reason"},
	)

	// LikesTotal counts like attempts by outcome.
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "likes_total",
			Help: "Total like attempts by outcome (applied, debounced)",
		},
		[]string{"outcome"},
	)
)

// Live feed metrics
var (
	// FeedConnectedClients tracks WebSocket clients on the live feed.
	FeedConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feed_connected_clients",
			Help: "Number of connected live feed WebSocket clients",
		},
	)
)

// Circuit breaker metrics
var (
	// BreakerStateChanges tracks circuit breaker state transitions.
	BreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// BreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)
