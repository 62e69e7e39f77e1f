// Package status provides a thread-safe snapshot of the controller's
// telemetry. Sensing tasks write it on their own periods; the web server,
// the command dispatcher, and the wireless link read it. Readers get a
// value copy, so stale-by-one-period data is expected and fine.
package status

import (
	"sync"
	"time"
)

// Config records the daemon configuration for display.
type Config struct {
	SensePeriodMs   int64
	BatteryPeriodMs int64
	CommsPeriodMs   int64
	WatchdogMs      int64
	Broker          string
	HTTPAddr        string
}

// Snapshot is a point-in-time view of controller state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Current1      float64 // debounced, amperes
	Current2      float64
	CurrentLimit  float64
	Over1         bool // debounced current over the safety limit
	Over2         bool
	LoadVoltage   float64 // debounced, volts
	BatteryVolts  float64 // debounced pack voltage
	BatterySOC    int     // 0-100
	Calibrated    bool
	WatchdogArmed bool
	StartTime     time.Time
	Now           time.Time
	LinkConnected bool
	Config        Config
}

// Uptime returns the duration since the controller started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds the mutable snapshot behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetCurrents records the debounced currents and limit state.
// Called by the sensing task every period.
func (t *Tracker) SetCurrents(i1, i2, limit float64, over1, over2 bool) {
	t.mu.Lock()
	t.snap.Current1 = i1
	t.snap.Current2 = i2
	t.snap.CurrentLimit = limit
	t.snap.Over1 = over1
	t.snap.Over2 = over2
	t.mu.Unlock()
}

// SetLoadVoltage records the debounced load voltage.
func (t *Tracker) SetLoadVoltage(v float64) {
	t.mu.Lock()
	t.snap.LoadVoltage = v
	t.mu.Unlock()
}

// SetBattery records the debounced pack voltage and state of charge.
// Called by the battery task.
func (t *Tracker) SetBattery(volts float64, soc int) {
	t.mu.Lock()
	t.snap.BatteryVolts = volts
	t.snap.BatterySOC = soc
	t.mu.Unlock()
}

// SetCalibrated records whether the analog front end is calibrated.
func (t *Tracker) SetCalibrated(ok bool) {
	t.mu.Lock()
	t.snap.Calibrated = ok
	t.mu.Unlock()
}

// SetWatchdogArmed records the supervisor state.
func (t *Tracker) SetWatchdogArmed(armed bool) {
	t.mu.Lock()
	t.snap.WatchdogArmed = armed
	t.mu.Unlock()
}

// SetLinkConnected records the wireless link state.
func (t *Tracker) SetLinkConnected(connected bool) {
	t.mu.Lock()
	t.snap.LinkConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the controller state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
