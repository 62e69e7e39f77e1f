// Package reset provides the full-system reset capability the watchdog
// invokes on a liveness violation. The reset is the recovery mechanism;
// nothing in-process attempts to continue past it.
package reset

// Resetter performs a full system reset.
type Resetter interface {
	// Reset triggers the reset, recording reason (the offending task).
	// It is expected not to return on real hardware; an error means the
	// reset itself could not be initiated.
	Reset(reason string) error
}
