package reset

import "sync"

// FakeResetter records reset requests for test assertions.
type FakeResetter struct {
	mu sync.Mutex

	// Reasons contains the reason of every Reset call, in order.
	Reasons []string

	// Err, if set, is returned by Reset.
	Err error
}

// NewFakeResetter creates a FakeResetter.
func NewFakeResetter() *FakeResetter {
	return &FakeResetter{}
}

// Reset records the reason.
func (f *FakeResetter) Reset(reason string) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	f.Reasons = append(f.Reasons, reason)
	f.mu.Unlock()
	return nil
}

// Calls returns the number of resets requested.
func (f *FakeResetter) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Reasons)
}
