//go:build linux

package adc

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// RealReader samples the board ADC through the Linux IIO sysfs interface.
type RealReader struct {
	dir        string
	index      [numChannels]int
	scale      float64 // volts per raw count; 0 when calibration unavailable
	calibrated bool
	closed     bool
}

// NewRealReader opens the IIO device directory (e.g.
// /sys/bus/iio/devices/iio:device0) and resolves the per-channel scale.
// A missing or unreadable scale file is not fatal: the reader falls back
// to raw converter counts and logs a warning once.
func NewRealReader(dir string, current1, current2, voltage, battery int) (*RealReader, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("open iio device %s: %w", dir, err)
	}

	r := &RealReader{dir: dir}
	r.index[Current1] = current1
	r.index[Current2] = current2
	r.index[Voltage] = voltage
	r.index[Battery] = battery

	scale, err := readSysfsFloat(filepath.Join(dir, "in_voltage_scale"))
	if err != nil {
		log.Printf("adc: calibration unavailable, reporting raw values: %v", err)
		r.calibrated = false
	} else {
		// IIO scale is millivolts per count.
		r.scale = scale / 1000.0
		r.calibrated = true
	}
	return r, nil
}

// Read samples one channel. Calibrated readers return volts, uncalibrated
// readers return the raw converter count.
func (r *RealReader) Read(ch Channel) (float64, error) {
	if r.closed {
		return 0, fmt.Errorf("adc: reader closed")
	}
	if ch < 0 || ch >= numChannels {
		return 0, fmt.Errorf("adc: unknown channel %d", int(ch))
	}

	path := filepath.Join(r.dir, fmt.Sprintf("in_voltage%d_raw", r.index[ch]))
	raw, err := readSysfsFloat(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", ch, err)
	}
	if !r.calibrated {
		return raw, nil
	}
	return raw * r.scale, nil
}

// Calibrated reports whether Read returns volts.
func (r *RealReader) Calibrated() bool {
	return r.calibrated
}

// Close releases the reader. Idempotent; sysfs needs no teardown beyond
// marking the handle unusable.
func (r *RealReader) Close() error {
	r.closed = true
	return nil
}

func readSysfsFloat(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return v, nil
}
