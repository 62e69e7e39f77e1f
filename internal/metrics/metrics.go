// Package metrics defines the process-wide Prometheus instruments.
// They are registered on the default registry and served by internal/web
// at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TaskIterations counts completed periodic task iterations.
	TaskIterations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfboard_task_iterations_total",
			Help: "Completed iterations per periodic task",
		},
		[]string{"task"},
	)

	// WatchdogFeeds counts liveness reports per task.
	WatchdogFeeds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfboard_watchdog_feeds_total",
			Help: "Watchdog feeds per registered task",
		},
		[]string{"task"},
	)

	// WatchdogTrips counts fatal liveness violations. Expected to be 0;
	// a nonzero value survives only until the reset takes effect.
	WatchdogTrips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rfboard_watchdog_trips_total",
			Help: "Watchdog timeouts that triggered the reset path",
		},
	)

	// Debounced exports the debounced value per measurement channel,
	// in physical units (amperes or volts).
	Debounced = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rfboard_debounced_value",
			Help: "Debounced measurement per channel, physical units",
		},
		[]string{"channel"},
	)

	// CurrentOverLimit is 1 while a current sensor's debounced value
	// exceeds the configured safety limit.
	CurrentOverLimit = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rfboard_current_over_limit",
			Help: "1 if the debounced current exceeds the safety limit",
		},
		[]string{"sensor"},
	)

	// CurrentLimit exports the active current safety limit in amperes.
	CurrentLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rfboard_current_limit_amperes",
			Help: "Active current safety limit",
		},
	)

	// BatterySOC exports the battery state of charge percentage.
	BatterySOC = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rfboard_battery_soc_percent",
			Help: "Battery state of charge, 0-100",
		},
	)

	// CommandsRejected counts malformed or unknown commands from the link.
	CommandsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rfboard_commands_rejected_total",
			Help: "Commands rejected by the parser",
		},
	)

	// StoreOperations counts persistent store operations by result.
	StoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rfboard_store_operations_total",
			Help: "Persistent store operations",
		},
		[]string{"operation", "status"},
	)
)
