package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotRefreshes counts refresh cycles by result (success|partial|failure).
	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qhse_snapshot_refreshes_total",
			Help: "Total number of snapshot refresh cycles",
		},
		[]string{"result"},
	)

	// SnapshotRefreshDuration measures end to end refresh latency.
	SnapshotRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qhse_snapshot_refresh_duration_seconds",
			Help:    "Snapshot refresh duration",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ModuleFetchFailures counts upstream fetch failures per module.
	ModuleFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qhse_module_fetch_failures_total",
			Help: "Total number of failed per-module upstream fetches",
		},
		[]string{"module"},
	)

	// ActiveAlerts tracks currently derived alerts per priority.
	ActiveAlerts = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "qhse_active_alerts",
			Help: "Number of active alerts in the latest snapshot",
		},
		[]string{"priority"},
	)

	// RealtimeClients tracks connected dashboard websocket clients.
	RealtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qhse_realtime_clients",
			Help: "Number of connected realtime clients",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qhse_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
