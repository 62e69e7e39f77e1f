package sense

import (
	"log"

	"github.com/calder/rfboard/internal/adc"
	"github.com/calder/rfboard/internal/debounce"
	"github.com/calder/rfboard/internal/metrics"
)

// Voltage monitors the load output voltage through the board divider.
type Voltage struct {
	reader   adc.Reader
	buf      debounce.Buffer
	released bool
}

// NewVoltage creates the voltage sensing module on the given reader.
func NewVoltage(reader adc.Reader) *Voltage {
	return &Voltage{reader: reader}
}

// Init verifies the sampling resource; calibration loss is non-fatal.
func (v *Voltage) Init() error {
	if !v.reader.Calibrated() {
		log.Printf("voltage: calibration unavailable, readings are uncalibrated")
	}
	log.Printf("voltage: sensing module initialized")
	return nil
}

// Step reads one sample and updates the debounce buffer.
func (v *Voltage) Step() {
	sample, err := v.reader.Read(adc.Voltage)
	if err != nil {
		log.Printf("voltage: read: %v", err)
		return
	}
	v.buf.Push(sample * voltageDividerRatio)
	metrics.Debounced.WithLabelValues("voltage").Set(v.buf.Average())
}

// Debounced returns the averaged load voltage in volts.
func (v *Voltage) Debounced() float64 {
	return v.buf.Average()
}

// Deinit releases the sampling resource. Calling it again is a no-op.
func (v *Voltage) Deinit() error {
	if v.released {
		return nil
	}
	v.released = true
	log.Printf("voltage: sensing module deinitialized")
	return v.reader.Close()
}
