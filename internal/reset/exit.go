package reset

import (
	"log"
	"os"
)

// ExitResetter terminates the process; the service manager restarts it.
// Used when no hardware reset line is wired.
type ExitResetter struct {
	// ExitFunc defaults to os.Exit; tests override it.
	ExitFunc func(code int)
}

// NewExitResetter creates a resetter that exits the process.
func NewExitResetter() *ExitResetter {
	return &ExitResetter{ExitFunc: os.Exit}
}

// Reset logs the reason and exits with a nonzero status.
func (r *ExitResetter) Reset(reason string) error {
	log.Printf("reset: terminating process for supervisor restart (reason: %s)", reason)
	r.ExitFunc(1)
	return nil
}
