//go:build !linux

package adc

import "errors"

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(dir string, current1, current2, voltage, battery int) (*RealReader, error) {
	return nil, errors.New("adc: not supported on this platform (requires Linux IIO)")
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read(ch Channel) (float64, error) {
	return 0, errors.New("adc: not supported")
}

// Calibrated is not implemented on non-Linux platforms.
func (r *RealReader) Calibrated() bool { return false }

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error { return nil }
