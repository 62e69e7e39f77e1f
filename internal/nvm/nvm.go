// Package nvm provides the controller's persistent key-value store:
// namespaced, string-keyed, string-valued. User programs and settings
// survive a watchdog reset through it.
package nvm

import "context"

// Namespace prefixes every key so the store can be shared with other
// services on the same backend.
const Namespace = "rfboard"

// Store reads and writes persistent strings by key.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Close releases the backing connection. Safe to call more than once.
	Close() error
}
