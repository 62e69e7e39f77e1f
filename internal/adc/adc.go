// Package adc provides calibrated analog sampling with hardware abstraction.
// The real implementation reads Linux IIO sysfs voltage channels.
// The fake implementation allows testing without hardware.
package adc

// Channel identifies one analog input of the board.
type Channel int

const (
	// Current1 and Current2 are the two load current sense amplifier outputs.
	Current1 Channel = iota
	Current2
	// Voltage is the load voltage divider tap.
	Voltage
	// Battery is the battery pack voltage divider tap.
	Battery

	numChannels
)

// Default IIO channel indices for the board's ADC.
const (
	DefaultIndexCurrent1 = 4
	DefaultIndexCurrent2 = 7
	DefaultIndexVoltage  = 5
	DefaultIndexBattery  = 9
)

// String returns the channel name used in logs and sysfs lookup tables.
func (c Channel) String() string {
	switch c {
	case Current1:
		return "current1"
	case Current2:
		return "current2"
	case Voltage:
		return "voltage"
	case Battery:
		return "battery"
	}
	return "unknown"
}

// Reader reads calibrated analog samples.
type Reader interface {
	// Read returns the voltage at the channel's input pin, in volts.
	// If calibration is unavailable the raw converter value is returned
	// instead (fail-soft); Calibrated reports which mode is active.
	Read(ch Channel) (float64, error)

	// Calibrated reports whether Read values are scaled to volts.
	Calibrated() bool

	// Close releases the sampling resource. Safe to call more than once.
	Close() error
}
