package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Current1      float64    `json:"current1_a"`
	Current2      float64    `json:"current2_a"`
	CurrentLimit  float64    `json:"current_limit_a"`
	Over1         bool       `json:"current1_over_limit"`
	Over2         bool       `json:"current2_over_limit"`
	LoadVoltage   float64    `json:"load_voltage_v"`
	BatteryVolts  float64    `json:"battery_voltage_v"`
	BatterySOC    int        `json:"battery_soc_percent"`
	Calibrated    bool       `json:"calibrated"`
	WatchdogArmed bool       `json:"watchdog_armed"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	Link          LinkStatus `json:"link"`
	Config        ConfigJSON `json:"config"`
}

// LinkStatus reports wireless link connection state.
type LinkStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	SensePeriodMs   int64  `json:"sense_period_ms"`
	BatteryPeriodMs int64  `json:"battery_period_ms"`
	CommsPeriodMs   int64  `json:"comms_period_ms"`
	WatchdogMs      int64  `json:"watchdog_ms"`
	HTTPAddr        string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Current1:      snap.Current1,
		Current2:      snap.Current2,
		CurrentLimit:  snap.CurrentLimit,
		Over1:         snap.Over1,
		Over2:         snap.Over2,
		LoadVoltage:   snap.LoadVoltage,
		BatteryVolts:  snap.BatteryVolts,
		BatterySOC:    snap.BatterySOC,
		Calibrated:    snap.Calibrated,
		WatchdogArmed: snap.WatchdogArmed,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Link:          LinkStatus{Connected: snap.LinkConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			SensePeriodMs:   snap.Config.SensePeriodMs,
			BatteryPeriodMs: snap.Config.BatteryPeriodMs,
			CommsPeriodMs:   snap.Config.CommsPeriodMs,
			WatchdogMs:      snap.Config.WatchdogMs,
			HTTPAddr:        snap.Config.HTTPAddr,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for a link reply or telemetry
// message, tagged with the event name (e.g. "STATUS", "STARTUP").
func FormatStatusEvent(snap Snapshot, event string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
