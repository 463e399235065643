package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/scheduler"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newTickCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "tick",
		Short: "Run the daily reset and penalty sweep once (for cron)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			var clock scheduler.Clock = scheduler.SystemClock{}
			if at != "" {
				t, err := time.ParseInLocation("2006-01-02 15:04", at, time.Local)
				if err != nil {
					return fmt.Errorf("--at wants \"YYYY-MM-DD HH:MM\": %w", err)
				}
				clock = scheduler.NewFakeClock(t)
			}

			rep, err := scheduler.New(a.svc, clock, 0, a.log).RunOnce(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !rep.Changed() {
				fmt.Fprintln(out, ui.Muted.Render("Nothing to do at "+rep.At.Format("2006-01-02 15:04")+"."))
				return nil
			}
			if rep.Reset.Changed {
				fmt.Fprintf(out, "%s New day %s: %d quest(s) reset\n", ui.IconSun, rep.Reset.Settings.LastReset, rep.Reset.Reset)
			}
			if rep.Sweep.Changed() {
				fmt.Fprintf(out, "%s %d quest(s) missed, -%d HP (now %d)\n", ui.IconSkull, len(rep.Sweep.Failed), rep.Sweep.Damage, rep.Sweep.Profile.HP)
				for _, t := range rep.Sweep.Failed {
					fmt.Fprintf(out, "  %s %s\n", ui.StatusText(engine.StatusFailed), t.Title)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Pretend the time is \"YYYY-MM-DD HH:MM\"")

	return cmd
}
