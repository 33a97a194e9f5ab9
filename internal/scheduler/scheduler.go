// Package scheduler is the explicit scheduling component §9 calls for in
// place of ambient background-task objects: every(interval), cron(hour,
// minute), and run_once(at), each owning its own cancellation token.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task is invoked by a scheduled trigger. It receives the context the
// Scheduler cancels on shutdown.
type Task func(ctx context.Context)

// Scheduler owns the lifecycle of every registered task and stops them
// all together on Shutdown.
type Scheduler struct {
	logger zerolog.Logger
	mu     sync.Mutex
	wg     sync.WaitGroup
	cancels []context.CancelFunc
	done    chan struct{}
}

// New constructs a Scheduler bound to logger.
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{logger: logger, done: make(chan struct{})}
}

// Every registers task to run every interval, starting one interval after
// registration, skipping a trigger if the previous run has not completed
// (§4.5/§5: "if a long-running job is still active... the next trigger is
// skipped, not queued").
func (s *Scheduler) Every(ctx context.Context, name string, interval time.Duration, task Task) {
	taskCtx, cancel := context.WithCancel(ctx)
	s.register(cancel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		var running sync.Mutex
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		run := func() {
			if !running.TryLock() {
				s.logger.Warn().Str("task", name).Msg("previous cycle still running, skipping tick")
				return
			}
			defer running.Unlock()
			task(taskCtx)
		}

		for {
			select {
			case <-ticker.C:
				run()
			case <-taskCtx.Done():
				return
			}
		}
	}()
}

// Cron registers task to run at each instant returned by nextFire, which is
// called with the current time before every wait (see NextDailyAt and
// NextHourlyAtMinute, which apply the local offset). The scheduler itself
// is timezone-agnostic; a trigger that fires while the previous run is
// still active is skipped.
func (s *Scheduler) Cron(ctx context.Context, name string, nextFire func(from time.Time) time.Time, task Task) {
	taskCtx, cancel := context.WithCancel(ctx)
	s.register(cancel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		var running sync.Mutex

		for {
			next := nextFire(time.Now())
			timer := time.NewTimer(time.Until(next))

			select {
			case <-timer.C:
				if running.TryLock() {
					task(taskCtx)
					running.Unlock()
				} else {
					s.logger.Warn().Str("task", name).Msg("previous run still active, skipping trigger")
				}
			case <-taskCtx.Done():
				timer.Stop()
				return
			}
		}
	}()
}

// RunOnce schedules task to run a single time at `at`, cancellable before
// it fires.
func (s *Scheduler) RunOnce(ctx context.Context, at time.Time, task Task) context.CancelFunc {
	taskCtx, cancel := context.WithCancel(ctx)
	s.register(cancel)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		timer := time.NewTimer(time.Until(at))
		defer timer.Stop()
		select {
		case <-timer.C:
			task(taskCtx)
		case <-taskCtx.Done():
		}
	}()
	return cancel
}

func (s *Scheduler) register(cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels = append(s.cancels, cancel)
}

// Shutdown cancels every registered task and waits up to grace for them to
// return; if grace elapses first, Shutdown returns without waiting
// further (the hard deadline is enforced by the caller, §5).
func (s *Scheduler) Shutdown(grace time.Duration) {
	s.mu.Lock()
	for _, cancel := range s.cancels {
		cancel()
	}
	s.mu.Unlock()

	waited := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(grace):
		s.logger.Warn().Msg("scheduler shutdown grace period elapsed with tasks still running")
	}
}
