package sense

import (
	"log"

	"github.com/calder/rfboard/internal/adc"
	"github.com/calder/rfboard/internal/debounce"
	"github.com/calder/rfboard/internal/metrics"
)

// Battery monitors the pack voltage and derives the state of charge.
type Battery struct {
	reader   adc.Reader
	buf      debounce.Buffer
	released bool
	warned   bool
}

// NewBattery creates the battery monitoring module on the given reader.
func NewBattery(reader adc.Reader) *Battery {
	return &Battery{reader: reader}
}

// Init verifies the sampling resource; calibration loss is non-fatal.
func (b *Battery) Init() error {
	if !b.reader.Calibrated() {
		log.Printf("battery: calibration unavailable, readings are uncalibrated")
	}
	log.Printf("battery: monitoring module initialized")
	return nil
}

// Step reads one sample, updates the debounce buffer, and warns when the
// debounced pack voltage drops to the empty threshold.
func (b *Battery) Step() {
	sample, err := b.reader.Read(adc.Battery)
	if err != nil {
		log.Printf("battery: read: %v", err)
		return
	}
	b.buf.Push(sample * batteryDividerRatio * batterySeriesCells)

	debounced := b.buf.Average()
	metrics.Debounced.WithLabelValues("battery").Set(debounced)
	metrics.BatterySOC.Set(float64(StateOfCharge(debounced)))

	if b.buf.Filled() && debounced <= BatteryEmptyVoltage {
		if !b.warned {
			log.Printf("battery: voltage critical (%.2f V), please recharge", debounced)
			b.warned = true
		}
	} else {
		b.warned = false
	}
}

// Debounced returns the averaged pack voltage in volts.
func (b *Battery) Debounced() float64 {
	return b.buf.Average()
}

// SOC returns the state of charge for the current debounced voltage.
func (b *Battery) SOC() int {
	return StateOfCharge(b.buf.Average())
}

// Deinit releases the sampling resource. Calling it again is a no-op.
func (b *Battery) Deinit() error {
	if b.released {
		return nil
	}
	b.released = true
	log.Printf("battery: monitoring module deinitialized")
	return b.reader.Close()
}

// StateOfCharge maps a pack voltage to a 0-100 percentage by linear
// interpolation between the empty and full voltages, clamped at both ends.
func StateOfCharge(voltage float64) int {
	if voltage >= BatteryFullVoltage {
		return 100
	}
	if voltage <= BatteryEmptyVoltage {
		return 0
	}
	return int((voltage - BatteryEmptyVoltage) / (BatteryFullVoltage - BatteryEmptyVoltage) * 100)
}
