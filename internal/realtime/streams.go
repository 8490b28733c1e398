package realtime

// Named realtime streams exposed to dashboard clients.
const (
	StreamAlerts  = "alerts"
	StreamMetrics = "metrics"
)

// Events published on the streams above.
const (
	EventAlertsUpdated  = "alerts.updated"
	EventMetricsUpdated = "metrics.updated"
)
