package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/scheduler"
	"github.com/lucasalcantarap/TaskMine/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the player's quest board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if _, err := startScheduler(ctx, a, scheduler.SystemClock{}); err != nil {
				return err
			}
			return tui.RunBoard(ctx, a.svc, cmd.OutOrStdout())
		},
	}

	return cmd
}

// startScheduler runs one reset and sweep pass before returning, then
// keeps the scheduler ticking until ctx is done. A family without a world
// yet is not an error.
func startScheduler(ctx context.Context, a *app, clock scheduler.Clock) (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.svc, clock, a.cfg.Scheduler.Interval, a.log)
	if _, err := sched.RunOnce(ctx); err != nil && !errors.Is(err, engine.ErrNoWorld) {
		return nil, err
	}
	go sched.Run(ctx)
	return sched, nil
}
