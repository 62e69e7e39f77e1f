package adc

import "errors"

// FakeReader is a test double that returns scripted per-channel samples.
type FakeReader struct {
	// Samples maps each channel to a script of values. Each Read of a
	// channel consumes the next value; when the script is exhausted the
	// last value repeats.
	Samples map[Channel][]float64

	// ReadError, if set, is returned by every Read.
	ReadError error

	// Uncalibrated makes Calibrated report false.
	Uncalibrated bool

	// Closed counts Close calls, so tests can assert idempotent release.
	Closed int

	index map[Channel]int
}

// NewFakeReader creates a FakeReader with the given per-channel scripts.
func NewFakeReader(samples map[Channel][]float64) *FakeReader {
	return &FakeReader{
		Samples: samples,
		index:   make(map[Channel]int),
	}
}

// Read returns the next scripted sample for the channel.
func (f *FakeReader) Read(ch Channel) (float64, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	script, ok := f.Samples[ch]
	if !ok || len(script) == 0 {
		return 0, errors.New("no samples configured for channel " + ch.String())
	}
	if f.index == nil {
		f.index = make(map[Channel]int)
	}
	i := f.index[ch]
	if i < len(script)-1 {
		f.index[ch] = i + 1
	}
	return script[i], nil
}

// Calibrated reports the scripted calibration state.
func (f *FakeReader) Calibrated() bool {
	return !f.Uncalibrated
}

// Close records the release.
func (f *FakeReader) Close() error {
	f.Closed++
	return nil
}

// Reset rewinds all channel scripts.
func (f *FakeReader) Reset() {
	f.index = make(map[Channel]int)
	f.Closed = 0
	f.ReadError = nil
}
