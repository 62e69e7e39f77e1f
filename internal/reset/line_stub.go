//go:build !linux

package reset

import "errors"

// DefaultResetPin is the BCM line wired to the board's hardware reset
// circuit.
const DefaultResetPin = 21

// LineResetter is not available on non-Linux platforms.
type LineResetter struct{}

// NewLineResetter returns an error on non-Linux platforms.
func NewLineResetter(chip string, pin int) (*LineResetter, error) {
	return nil, errors.New("reset: not supported on this platform (requires Linux)")
}

// Reset is not implemented on non-Linux platforms.
func (r *LineResetter) Reset(reason string) error {
	return errors.New("reset: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *LineResetter) Close() error { return nil }
