package sense

import (
	"errors"
	"math"
	"testing"

	"github.com/calder/rfboard/internal/adc"
)

// ampsToPinVolts converts a desired current reading into the voltage the
// ADC would see at the amplifier output.
func ampsToPinVolts(amps float64) float64 {
	return amps * currentSenseResistor * currentSenseGain
}

func repeat(v float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestCurrentConversionAndDebounce(t *testing.T) {
	fake := adc.NewFakeReader(map[adc.Channel][]float64{
		adc.Current1: repeat(ampsToPinVolts(0.05), 5),
		adc.Current2: repeat(ampsToPinVolts(0.02), 5),
	})
	c := NewCurrent(fake)
	if err := c.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	for i := 0; i < 5; i++ {
		c.Step()
	}

	if got := c.Debounced(Sensor1); math.Abs(got-0.05) > 1e-9 {
		t.Errorf("sensor1 debounced = %v, want 0.05", got)
	}
	if got := c.Debounced(Sensor2); math.Abs(got-0.02) > 1e-9 {
		t.Errorf("sensor2 debounced = %v, want 0.02", got)
	}
}

func TestCurrentLimitClamp(t *testing.T) {
	c := NewCurrent(adc.NewFakeReader(nil))

	if got := c.Limit(); got != CurrentLimitSafe {
		t.Errorf("default limit = %v, want %v", got, CurrentLimitSafe)
	}

	// Lowering is allowed.
	if got := c.SetLimit(0.05); got != 0.05 {
		t.Errorf("SetLimit(0.05) = %v, want 0.05", got)
	}
	if got := c.Limit(); got != 0.05 {
		t.Errorf("limit after set = %v, want 0.05", got)
	}

	// Raising above the safety constant clamps silently.
	if got := c.SetLimit(5.0); got != CurrentLimitSafe {
		t.Errorf("SetLimit(5.0) = %v, want %v", got, CurrentLimitSafe)
	}
	if got := c.Limit(); got != CurrentLimitSafe {
		t.Errorf("limit after clamp = %v, want %v", got, CurrentLimitSafe)
	}

	// Set then get is idempotent.
	c.SetLimit(0.08)
	first := c.Limit()
	c.SetLimit(first)
	if got := c.Limit(); got != first {
		t.Errorf("limit after re-set = %v, want %v", got, first)
	}
}

func TestCurrentOverLimit(t *testing.T) {
	// 0.2 A sustained is over the 0.1 A default limit.
	fake := adc.NewFakeReader(map[adc.Channel][]float64{
		adc.Current1: repeat(ampsToPinVolts(0.2), 5),
		adc.Current2: repeat(ampsToPinVolts(0.01), 5),
	})
	c := NewCurrent(fake)
	for i := 0; i < 5; i++ {
		c.Step()
	}

	if !c.OverLimit(Sensor1) {
		t.Error("sensor1 at 0.2 A should be over the 0.1 A limit")
	}
	if c.OverLimit(Sensor2) {
		t.Error("sensor2 at 0.01 A should not be over the limit")
	}

	// Lowering the limit below sensor2's reading flips it.
	c.SetLimit(0.005)
	if !c.OverLimit(Sensor2) {
		t.Error("sensor2 should be over a 0.005 A limit")
	}
}

func TestCurrentStepReadErrorKeepsStaleAverage(t *testing.T) {
	fake := adc.NewFakeReader(map[adc.Channel][]float64{
		adc.Current1: repeat(ampsToPinVolts(0.05), 5),
		adc.Current2: repeat(ampsToPinVolts(0.05), 5),
	})
	c := NewCurrent(fake)
	for i := 0; i < 5; i++ {
		c.Step()
	}
	before := c.Debounced(Sensor1)

	fake.ReadError = errors.New("adc fault")
	c.Step()
	c.Step()

	if got := c.Debounced(Sensor1); got != before {
		t.Errorf("debounced changed across failed reads: %v -> %v", before, got)
	}
}

func TestCurrentDeinitIdempotent(t *testing.T) {
	fake := adc.NewFakeReader(nil)
	c := NewCurrent(fake)

	if err := c.Deinit(); err != nil {
		t.Fatalf("deinit: %v", err)
	}
	if err := c.Deinit(); err != nil {
		t.Fatalf("second deinit: %v", err)
	}
	if fake.Closed != 1 {
		t.Errorf("reader closed %d times, want 1", fake.Closed)
	}
}

func TestCurrentUncalibratedInitIsNonFatal(t *testing.T) {
	fake := adc.NewFakeReader(map[adc.Channel][]float64{
		adc.Current1: {1}, adc.Current2: {1},
	})
	fake.Uncalibrated = true
	c := NewCurrent(fake)
	if err := c.Init(); err != nil {
		t.Fatalf("init with missing calibration should not fail: %v", err)
	}
	c.Step() // still samples
	if c.Debounced(Sensor1) == 0 {
		t.Error("expected raw fallback samples to reach the buffer")
	}
}
