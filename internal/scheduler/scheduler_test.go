package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/storage"
)

func newService(t *testing.T, clock Clock) *engine.Service {
	t.Helper()
	ctx := context.Background()
	store, err := storage.Open(ctx, filepath.Join(t.TempDir(), "sched.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc := engine.NewService(store, "fam", engine.WithClock(clock.Now))
	_, err = svc.CreateWorld(ctx, engine.CreateWorldInput{PlayerName: "Alex"})
	require.NoError(t, err)
	return svc
}

func TestRunOnceSweepsAndResets(t *testing.T) {
	ctx := context.Background()
	clock := NewFakeClock(time.Date(2026, 7, 1, 10, 0, 0, 0, time.Local))
	svc := newService(t, clock)

	task, err := svc.AddTask(ctx, engine.AddTaskInput{Title: "Feed the cat", TimeOfDay: engine.Morning, Points: 10})
	require.NoError(t, err)

	s := New(svc, clock, time.Minute, nil)

	rep, err := s.RunOnce(ctx)
	require.NoError(t, err)
	assert.False(t, rep.Changed(), "nothing is overdue at 10:00")

	clock.Set(time.Date(2026, 7, 1, 12, 30, 0, 0, time.Local))
	rep, err = s.RunOnce(ctx)
	require.NoError(t, err)
	require.Len(t, rep.Sweep.Failed, 1)
	assert.Equal(t, task.ID, rep.Sweep.Failed[0].ID)

	rep, err = s.RunOnce(ctx)
	require.NoError(t, err)
	assert.False(t, rep.Changed(), "second sweep in the same hour")

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100-engine.DefaultTuning().PenaltyDamage, snap.Profile.HP)

	clock.Set(time.Date(2026, 7, 2, 7, 0, 0, 0, time.Local))
	rep, err = s.RunOnce(ctx)
	require.NoError(t, err)
	assert.True(t, rep.Reset.Changed)
	assert.Equal(t, 1, rep.Reset.Reset)
	assert.False(t, rep.Sweep.Changed())

	snap, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	got, _, err := snap.Task(task.ID)
	require.NoError(t, err)
	assert.Equal(t, engine.StatusPending, got.Status)
	assert.Empty(t, snap.Penalties)
	assert.Equal(t, int64(4), s.Passes())
	assert.Equal(t, clock.Now(), s.LastRun())
}

type failingRunner struct{ calls int }

func (f *failingRunner) RunDailyReset(ctx context.Context, now time.Time) (engine.ResetResult, error) {
	f.calls++
	return engine.ResetResult{}, errors.New("disk full")
}

func (f *failingRunner) RunPenaltySweep(ctx context.Context, now time.Time) (engine.SweepResult, error) {
	return engine.SweepResult{}, nil
}

func TestRunOnceRetriesResetAfterFailure(t *testing.T) {
	ctx := context.Background()
	clock := NewFakeClock(time.Date(2026, 7, 1, 10, 0, 0, 0, time.Local))
	r := &failingRunner{}
	s := New(r, clock, 0, nil)

	_, err := s.RunOnce(ctx)
	require.Error(t, err)
	_, err = s.RunOnce(ctx)
	require.Error(t, err)
	assert.Equal(t, 2, r.calls, "a failed reset is not remembered as done")
	assert.True(t, s.LastRun().IsZero())
}

func TestRunStopsWithContext(t *testing.T) {
	clock := NewFakeClock(time.Date(2026, 7, 1, 10, 0, 0, 0, time.Local))
	svc := newService(t, clock)
	s := New(svc, clock, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return s.Passes() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
