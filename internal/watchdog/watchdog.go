// Package watchdog tracks liveness of the periodic tasks. Each registered
// task must feed at least once per timeout window; a missed window is fatal
// and hands control to an injected reset capability. The supervisor itself
// never polls: the orchestrator's monitor loop drives Check, standing in
// for the platform's timer interrupt.
package watchdog

import (
	"log"
	"sync"
	"time"
)

// MainTask is the implicit first watched task: the context that armed the
// supervisor.
const MainTask = "main"

// Supervisor holds a last-fed deadline per registered task. It knows tasks
// by name only and never owns or extends their lifetime.
type Supervisor struct {
	mu      sync.Mutex
	timeout time.Duration
	now     func() time.Time
	onTrip  func(task string)

	armed   bool
	tripped bool
	lastFed map[string]time.Time
}

// New creates an unarmed supervisor. now is the clock (nil means
// time.Now); onTrip is the reset capability invoked at most once, with the
// name of the task that missed its window.
func New(now func() time.Time, onTrip func(task string)) *Supervisor {
	if now == nil {
		now = time.Now
	}
	return &Supervisor{
		now:     now,
		onTrip:  onTrip,
		lastFed: make(map[string]time.Time),
	}
}

// Init arms the supervisor with the process-wide timeout and registers the
// calling context as the first watched task.
func (s *Supervisor) Init(timeout time.Duration) {
	s.mu.Lock()
	s.timeout = timeout
	s.armed = true
	s.lastFed[MainTask] = s.now()
	s.mu.Unlock()
	log.Printf("watchdog: armed with %v timeout", timeout)
}

// Register adds a task to the watched set, with its window starting now.
func (s *Supervisor) Register(task string) {
	s.mu.Lock()
	s.lastFed[task] = s.now()
	s.mu.Unlock()
}

// Unregister removes a task from the watched set. Removing a task that was
// never registered or never fed is not an error.
func (s *Supervisor) Unregister(task string) {
	s.mu.Lock()
	delete(s.lastFed, task)
	s.mu.Unlock()
}

// Feed records the task's proof of progress. Feeding an unregistered task
// registers it; the supervisor trusts periodic feeding rather than
// tracking task identity.
func (s *Supervisor) Feed(task string) {
	s.mu.Lock()
	if s.armed && !s.tripped {
		s.lastFed[task] = s.now()
	}
	s.mu.Unlock()
}

// Check reports the first registered task whose window has elapsed. The
// first violation trips the supervisor permanently: the offender is
// logged, the reset capability fires once, and every later Check returns
// the same verdict without re-firing.
func (s *Supervisor) Check() (task string, tripped bool) {
	s.mu.Lock()
	if !s.armed {
		s.mu.Unlock()
		return "", false
	}
	if s.tripped {
		s.mu.Unlock()
		return "", true
	}

	now := s.now()
	var offender string
	for name, fed := range s.lastFed {
		if now.Sub(fed) >= s.timeout {
			offender = name
			break
		}
	}
	if offender == "" {
		s.mu.Unlock()
		return "", false
	}

	s.tripped = true
	onTrip := s.onTrip
	s.mu.Unlock()

	log.Printf("watchdog: task %q missed its %v window, resetting system", offender, s.timeout)
	if onTrip != nil {
		onTrip(offender)
	}
	return offender, true
}

// Tripped reports whether the supervisor has taken the fatal path.
func (s *Supervisor) Tripped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tripped
}

// Deinit disarms the supervisor. Always succeeds; no further checks fire.
func (s *Supervisor) Deinit() {
	s.mu.Lock()
	s.armed = false
	s.lastFed = make(map[string]time.Time)
	s.mu.Unlock()
	log.Printf("watchdog: disarmed")
}
