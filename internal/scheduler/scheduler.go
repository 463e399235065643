// Package scheduler drives the daily reset and the penalty sweep from a
// clock. Both checks are idempotent, so running them on every tick and
// once at startup is safe.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/logger"
)

// DefaultInterval is how often the checks run when not configured.
const DefaultInterval = time.Minute

// Runner is the part of the service the scheduler drives.
type Runner interface {
	RunDailyReset(ctx context.Context, now time.Time) (engine.ResetResult, error)
	RunPenaltySweep(ctx context.Context, now time.Time) (engine.SweepResult, error)
}

// Report describes one pass.
type Report struct {
	At    time.Time
	Reset engine.ResetResult
	Sweep engine.SweepResult
}

func (r Report) Changed() bool {
	return r.Reset.Changed || r.Sweep.Changed()
}

type Scheduler struct {
	runner   Runner
	clock    Clock
	interval time.Duration
	logger   *logger.Logger

	mu        sync.Mutex
	lastDay   string
	lastRun   time.Time
	passCount int64
}

func New(runner Runner, clock Clock, interval time.Duration, log *logger.Logger) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{runner: runner, clock: clock, interval: interval, logger: log}
}

// Run performs a pass immediately and then one per interval until ctx is
// done. A failed pass is logged and retried on the next tick.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started (every %s)", s.interval)

	if _, err := s.RunOnce(ctx); err != nil {
		s.logger.Error("scheduler pass failed: %v", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("scheduler pass failed: %v", err)
			}
		}
	}
}

// RunOnce runs the daily reset, then the penalty sweep, at the clock's
// current time. The reset goes first so a new day never sweeps
// yesterday's tasks.
func (s *Scheduler) RunOnce(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	rep := Report{At: now}
	today := now.Format(engine.DayFormat)

	if today != s.lastDay {
		res, err := s.runner.RunDailyReset(ctx, now)
		if err != nil {
			return rep, err
		}
		rep.Reset = res
		s.lastDay = today
		if res.Changed {
			s.logger.Info("daily reset for %s: %d quests back to pending", today, res.Reset)
		}
	}

	sweep, err := s.runner.RunPenaltySweep(ctx, now)
	if err != nil {
		return rep, err
	}
	rep.Sweep = sweep
	if sweep.Changed() {
		s.logger.Info("penalty sweep at %02d:00: %d quests failed, %d damage", now.Hour(), len(sweep.Failed), sweep.Damage)
	}

	s.lastRun = now
	s.passCount++
	return rep, nil
}

// LastRun returns the time of the last successful pass.
func (s *Scheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func (s *Scheduler) Passes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passCount
}
