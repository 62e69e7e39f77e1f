// Package sense implements the board's analog sensing modules: load current
// (two sensors), load voltage, and battery. Each module owns its debounce
// buffers and is stepped by exactly one periodic task; no locks guard the
// buffers because the task-to-module binding makes the writer unique.
//
// Step never returns an error and never panics: a failed hardware read is
// logged and the stale debounced average stands until the next good sample
// overwrites the oldest slot. Periodic task bodies must not be allowed to
// exit abnormally.
package sense

// Analog front-end constants, fixed by the board revision.
const (
	// Current sense: 15 mΩ shunt through a 20x amplifier.
	currentSenseResistor = 0.015
	currentSenseGain     = 20.0

	// Load voltage divider.
	voltageDividerRatio = 10.0

	// Battery divider and pack topology: three 18650 cells in series
	// behind a 2:1 divider.
	batteryDividerRatio = 2.0
	batterySeriesCells  = 3.0
)

// CurrentLimitSafe is the hard human-safety ceiling for the configurable
// current limit, in amperes. SetLimit can never raise the limit above it.
const CurrentLimitSafe = 0.1

// Battery voltage endpoints for the state-of-charge mapping, in volts.
const (
	BatteryFullVoltage  = 12.6 // 4.2 V x 3 cells
	BatteryEmptyVoltage = 9.0  // 3.0 V x 3 cells
)
