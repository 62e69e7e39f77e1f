//go:build linux

package reset

import (
	"fmt"
	"log"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// DefaultResetPin is the BCM line wired to the board's hardware reset
// circuit.
const DefaultResetPin = 21

// LineResetter pulses the board's reset line through the Linux GPIO
// character device. The pulse power-cycles the controller, so Reset does
// not return on success.
type LineResetter struct {
	line *gpiocdev.Line
}

// NewLineResetter requests the reset line as an output held inactive.
func NewLineResetter(chip string, pin int) (*LineResetter, error) {
	line, err := gpiocdev.RequestLine(chip, pin, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request reset pin %d: %w", pin, err)
	}
	return &LineResetter{line: line}, nil
}

// Reset drives the reset line active. The hold time covers the reset
// controller's minimum pulse width.
func (r *LineResetter) Reset(reason string) error {
	log.Printf("reset: pulsing hardware reset line (reason: %s)", reason)
	if err := r.line.SetValue(1); err != nil {
		return fmt.Errorf("assert reset line: %w", err)
	}
	time.Sleep(100 * time.Millisecond)
	// Not reached when the line is wired; kept for bench setups where it
	// floats.
	if err := r.line.SetValue(0); err != nil {
		return fmt.Errorf("release reset line: %w", err)
	}
	return nil
}

// Close releases the reset line.
func (r *LineResetter) Close() error {
	return r.line.Close()
}
