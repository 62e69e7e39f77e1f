package sense

import (
	"log"
	"sync"

	"github.com/calder/rfboard/internal/adc"
	"github.com/calder/rfboard/internal/debounce"
	"github.com/calder/rfboard/internal/metrics"
)

// CurrentSensor selects one of the two load current sensors.
type CurrentSensor int

const (
	Sensor1 CurrentSensor = iota
	Sensor2
)

func (s CurrentSensor) channel() adc.Channel {
	if s == Sensor1 {
		return adc.Current1
	}
	return adc.Current2
}

func (s CurrentSensor) label() string {
	if s == Sensor1 {
		return "current1"
	}
	return "current2"
}

// Current monitors the load current on both sensors and enforces the
// configurable safety limit. The gate driver collaborator reads OverLimit
// to decide when to disable the output; that policy lives outside this
// module.
type Current struct {
	reader adc.Reader
	bufs   [2]debounce.Buffer

	// limit is written by the command task and read by sensing and
	// status consumers, so unlike the buffers it needs the lock.
	mu    sync.RWMutex
	limit float64

	released bool
}

// NewCurrent creates the current sensing module on the given reader.
// The limit starts at the safety ceiling.
func NewCurrent(reader adc.Reader) *Current {
	return &Current{reader: reader, limit: CurrentLimitSafe}
}

// Init verifies the sampling resource. Missing calibration is not fatal:
// the module keeps running on raw values and says so once.
func (c *Current) Init() error {
	if !c.reader.Calibrated() {
		log.Printf("current: calibration unavailable, readings are uncalibrated")
	}
	log.Printf("current: sensing module initialized (limit %.2f A)", c.Limit())
	return nil
}

// Step reads one sample per sensor and updates the debounce buffers.
func (c *Current) Step() {
	for _, s := range []CurrentSensor{Sensor1, Sensor2} {
		v, err := c.reader.Read(s.channel())
		if err != nil {
			log.Printf("current: read sensor %d: %v", s+1, err)
			continue
		}
		amps := v / (currentSenseResistor * currentSenseGain)
		c.bufs[s].Push(amps)
		metrics.Debounced.WithLabelValues(s.label()).Set(c.bufs[s].Average())
		if c.overLimit(s) {
			metrics.CurrentOverLimit.WithLabelValues(s.label()).Set(1)
		} else {
			metrics.CurrentOverLimit.WithLabelValues(s.label()).Set(0)
		}
	}
}

// Debounced returns the averaged load current for a sensor, in amperes.
func (c *Current) Debounced(s CurrentSensor) float64 {
	return c.bufs[s].Average()
}

// OverLimit reports whether a sensor's debounced current exceeds the
// configured limit.
func (c *Current) OverLimit(s CurrentSensor) bool {
	return c.overLimit(s)
}

func (c *Current) overLimit(s CurrentSensor) bool {
	return c.bufs[s].Average() > c.Limit()
}

// SetLimit sets the configurable current limit. Values above the safety
// ceiling are clamped to it; the configured limit can never exceed the
// hardware/human-safety constant. Returns the limit actually applied.
func (c *Current) SetLimit(limit float64) float64 {
	if limit > CurrentLimitSafe {
		limit = CurrentLimitSafe
	}
	c.mu.Lock()
	c.limit = limit
	c.mu.Unlock()
	metrics.CurrentLimit.Set(limit)
	log.Printf("current: limit set to %.3f A", limit)
	return limit
}

// Limit returns the active current limit in amperes.
func (c *Current) Limit() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.limit
}

// Deinit releases the sampling resource. Calling it again is a no-op.
func (c *Current) Deinit() error {
	if c.released {
		return nil
	}
	c.released = true
	log.Printf("current: sensing module deinitialized")
	return c.reader.Close()
}
