// Package metrics holds the Prometheus instrumentation for the monitoring
// loop and the dashboard transport. Collectors are registered at init via
// promauto and served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicksTotal counts completed monitoring ticks.
	TicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plantwatch_ticks_total",
			Help: "Total number of completed monitoring ticks",
		},
	)

	// ClassificationsTotal counts classification outcomes per target and status.
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantwatch_classifications_total",
			Help: "Total number of classifications by target and resulting status",
		},
		[]string{"target", "status"},
	)

	// FallbacksTotal counts classifications that took a non-model path.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantwatch_fallbacks_total",
			Help: "Total number of classifications that used a fallback or rejection path",
		},
		[]string{"target", "path"},
	)

	// ModelLoadProgress is the current model load progress (0-100).
	ModelLoadProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plantwatch_model_load_progress",
			Help: "Current model load progress (0-100)",
		},
	)

	// MonitoringRunning is 1 while the monitoring loop is active.
	MonitoringRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plantwatch_monitoring_running",
			Help: "Whether the monitoring loop is currently running (0 or 1)",
		},
	)

	// LogEntries is the current number of entries in the event log buffer.
	LogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plantwatch_log_entries",
			Help: "Current number of entries in the event log buffer",
		},
	)

	// WSClients is the number of connected dashboard WebSocket clients.
	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plantwatch_ws_clients",
			Help: "Number of connected dashboard WebSocket clients",
		},
	)
)
