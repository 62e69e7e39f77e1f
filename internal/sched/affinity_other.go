//go:build !linux

package sched

// pinToCore is a no-op off Linux: the core and priority are validated and
// recorded, and placement falls back to the Go runtime.
func pinToCore(core, priority int) error {
	return nil
}
