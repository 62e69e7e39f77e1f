// Package sched creates the board's periodic tasks: each task is an
// OS-thread-locked goroutine pinned to one of the two cores, looping
// [work, feed watchdog, sleep one period] until the scheduler is stopped.
//
// Tasks never synchronize with each other. Correctness rests on static
// ownership: every mutable buffer has exactly one writing task, bound here
// at schedule time. Stopping is abrupt: a task gets no cleanup hook; the
// orchestrator deinitializes collaborators separately.
package sched

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/calder/rfboard/internal/metrics"
)

// NumCores is the number of hardware cores tasks may be pinned to.
const NumCores = 2

// MinPeriod is the shortest allowed task period.
const MinPeriod = time.Millisecond

// Validation errors returned by Schedule.
var (
	ErrInvalidCore     = errors.New("sched: core must be 0 or 1")
	ErrInvalidPriority = errors.New("sched: priority must be a positive integer")
	ErrInvalidPeriod   = errors.New("sched: period must be at least 1ms")
	ErrStopped         = errors.New("sched: scheduler stopped")
)

// Task describes one periodic duty.
type Task struct {
	Name     string
	Core     int           // 0 or 1, pinned for the task's lifetime
	Priority int           // positive; higher is more urgent
	Period   time.Duration // >= MinPeriod
	Work     func()        // must not block indefinitely
}

// Feeder receives per-iteration liveness reports. Satisfied by
// *watchdog.Supervisor.
type Feeder interface {
	Register(task string)
	Feed(task string)
}

// Scheduler owns the period/priority table and the running task contexts.
type Scheduler struct {
	feeder Feeder

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped bool
	tasks   []Task
}

// New creates a scheduler reporting liveness to feeder.
func New(feeder Feeder) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{feeder: feeder, ctx: ctx, cancel: cancel}
}

// Schedule validates the task and starts its pinned execution context.
// A rejected task has no side effects. A scheduling failure is an error to
// the caller, not fatal to the rest of the system: the orchestrator decides
// whether a missing task is tolerable.
func (s *Scheduler) Schedule(t Task) error {
	if t.Core < 0 || t.Core >= NumCores {
		return fmt.Errorf("%w (got %d)", ErrInvalidCore, t.Core)
	}
	if t.Priority < 1 {
		return fmt.Errorf("%w (got %d)", ErrInvalidPriority, t.Priority)
	}
	if t.Period < MinPeriod {
		return fmt.Errorf("%w (got %v)", ErrInvalidPeriod, t.Period)
	}
	if t.Work == nil {
		return fmt.Errorf("sched: task %q has no work function", t.Name)
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	s.tasks = append(s.tasks, t)
	s.wg.Add(1)
	s.mu.Unlock()

	s.feeder.Register(t.Name)
	go s.run(t)
	log.Printf("sched: task %q scheduled on core %d (period %v, priority %d)", t.Name, t.Core, t.Period, t.Priority)
	return nil
}

func (s *Scheduler) run(t Task) {
	defer s.wg.Done()

	// The goroutine stays on one OS thread for its lifetime so the core
	// affinity below holds.
	runtime.LockOSThread()
	if err := pinToCore(t.Core, t.Priority); err != nil {
		log.Printf("sched: task %q: pin to core %d: %v", t.Name, t.Core, err)
	}

	ticker := time.NewTicker(t.Period)
	defer ticker.Stop()

	for {
		t.Work()
		s.feeder.Feed(t.Name)
		metrics.TaskIterations.WithLabelValues(t.Name).Inc()
		metrics.WatchdogFeeds.WithLabelValues(t.Name).Inc()

		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Tasks returns a copy of the scheduled task table.
func (s *Scheduler) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Stop tears down every task context and waits for the loops to exit.
// Tasks do not run cleanup code; collaborators needing teardown are
// deinitialized by the orchestrator afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	log.Printf("sched: all tasks stopped")
}
