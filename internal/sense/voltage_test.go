package sense

import (
	"math"
	"sync"
	"testing"

	"github.com/calder/rfboard/internal/adc"
)

func TestVoltageDebounced(t *testing.T) {
	// 1.2 V at the pin through the 10:1 divider is 12 V at the load.
	fake := adc.NewFakeReader(map[adc.Channel][]float64{
		adc.Voltage: repeat(1.2, 5),
	})
	v := NewVoltage(fake)
	if err := v.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	for i := 0; i < 5; i++ {
		v.Step()
	}
	if got := v.Debounced(); math.Abs(got-12.0) > 1e-9 {
		t.Errorf("debounced = %v, want 12.0", got)
	}
}

func TestVoltageDeinitIdempotent(t *testing.T) {
	fake := adc.NewFakeReader(nil)
	v := NewVoltage(fake)
	if err := v.Deinit(); err != nil {
		t.Fatalf("deinit: %v", err)
	}
	if err := v.Deinit(); err != nil {
		t.Fatalf("second deinit: %v", err)
	}
	if fake.Closed != 1 {
		t.Errorf("reader closed %d times, want 1", fake.Closed)
	}
}

// Two modules stepped concurrently never contaminate each other's buffers:
// each buffer has exactly one writer by construction.
func TestIndependentModulesConcurrentSteps(t *testing.T) {
	vFake := adc.NewFakeReader(map[adc.Channel][]float64{
		adc.Voltage: repeat(1.0, 5), // 10 V load
	})
	bFake := adc.NewFakeReader(map[adc.Channel][]float64{
		adc.Battery: repeat(packVoltsToPinVolts(12.0), 5),
	})
	v := NewVoltage(vFake)
	b := NewBattery(bFake)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			v.Step()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			b.Step()
		}
	}()
	wg.Wait()

	if got := v.Debounced(); math.Abs(got-10.0) > 1e-9 {
		t.Errorf("voltage debounced = %v, want 10.0", got)
	}
	if got := b.Debounced(); math.Abs(got-12.0) > 1e-9 {
		t.Errorf("battery debounced = %v, want 12.0", got)
	}
}
