package engine

import (
	"context"
	"fmt"
	"time"
)

// RunDailyReset rolls the family over to the calendar day of now. It is a
// no-op when the reset already ran that day.
func (s *Service) RunDailyReset(ctx context.Context, now time.Time) (ResetResult, error) {
	var res ResetResult
	err := s.mutate(ctx, "daily reset", func(w *writer) error {
		res = DailyReset(w.snap.Tasks, w.snap.Settings, w.snap.Penalties, now.Format(DayFormat))
		if !res.Changed {
			return nil
		}
		w.tasks(res.Tasks)
		w.settings(res.Settings)
		w.penalties(res.Penalties)
		w.activity(ActivitySystemReset, fmt.Sprintf("New day %s: %d quests reset", res.Settings.LastReset, res.Reset), res.Reset, "")
		return nil
	})
	return res, err
}

// RunPenaltySweep fails overdue tasks at the hour of now and applies their
// combined HP damage once.
func (s *Service) RunPenaltySweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult
	err := s.mutate(ctx, "penalty sweep", func(w *writer) error {
		res = PenaltySweep(w.snap.Tasks, w.snap.Profile, w.snap.Penalties, now.Hour(), w.snap.Settings.Rules, w.tun)
		if !res.Changed() {
			return nil
		}
		if err := w.profile(res.Profile); err != nil {
			return err
		}
		w.tasks(res.Tasks)
		w.penalties(res.Penalties)
		per := w.tun.PenaltyFor(w.snap.Settings.Rules)
		for _, t := range res.Failed {
			w.activity(ActivityTaskFailed, "Time ran out: "+t.Title, -per, "HP")
		}
		return nil
	})
	return res, err
}
