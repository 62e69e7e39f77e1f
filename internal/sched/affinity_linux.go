//go:build linux

package sched

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// pinToCore binds the calling thread to the given core and applies the
// task priority as a niceness hint. Affinity failure is reported; a
// refused niceness change is not, since hard realtime classes would need
// privileges this daemon does not assume.
func pinToCore(core, priority int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("setaffinity: %w", err)
	}

	nice := -priority
	if nice < -19 {
		nice = -19
	}
	// Best effort: unprivileged processes cannot lower nice below 0.
	_ = unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), nice)
	return nil
}
