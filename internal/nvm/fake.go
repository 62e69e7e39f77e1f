package nvm

import (
	"context"
	"sync"
)

// FakeStore is an in-memory Store for tests and for degraded startup when
// the persistent backend is unreachable.
type FakeStore struct {
	mu   sync.Mutex
	data map[string]string

	// GetError and SetError, if set, are returned by the matching call.
	GetError error
	SetError error

	// Closed tracks whether Close was called.
	Closed bool
}

// NewFakeStore creates an empty in-memory store.
func NewFakeStore() *FakeStore {
	return &FakeStore{data: make(map[string]string)}
}

// Get returns the stored value for key.
func (f *FakeStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.GetError != nil {
		return "", false, f.GetError
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (f *FakeStore) Set(ctx context.Context, key, value string) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.mu.Lock()
	f.data[key] = value
	f.mu.Unlock()
	return nil
}

// Close marks the store closed.
func (f *FakeStore) Close() error {
	f.Closed = true
	return nil
}
