package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newTaskListCmd() *cobra.Command {
	var period string
	var review bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List quests by time of day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			snap, err := svc.Snapshot(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if review {
				tasks := snap.AwaitingReview()
				fmt.Fprintln(out, ui.Heading(ui.IconScroll, fmt.Sprintf("Awaiting review (%d)", len(tasks))))
				for _, t := range tasks {
					printTask(cmd, t)
					if t.EvidenceURL != "" {
						fmt.Fprintf(out, "      %s %s\n", ui.Muted.Render(string(t.EvidenceType)+":"), t.EvidenceURL)
					}
				}
				return nil
			}

			periods := []engine.TimeOfDay{engine.Morning, engine.Afternoon, engine.Night}
			if period != "" {
				tod, err := engine.ParseTimeOfDay(period)
				if err != nil {
					return err
				}
				periods = []engine.TimeOfDay{tod}
			}
			for _, tod := range periods {
				tasks := snap.TasksFor(tod)
				fmt.Fprintln(out, ui.H2.Render(fmt.Sprintf("%s %s (%d)", ui.PeriodIcon(tod), tod, len(tasks))))
				if len(tasks) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("  (none)"))
				}
				for _, t := range tasks {
					printTask(cmd, t)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "when", "w", "", "Only this time of day")
	cmd.Flags().BoolVar(&review, "review", false, "Only quests waiting for parent review")

	return cmd
}

func printTask(cmd *cobra.Command, t engine.Task) {
	out := cmd.OutOrStdout()
	reward := fmt.Sprintf("+%d XP", t.Points)
	if t.Emeralds > 0 {
		reward += " " + ui.Price(t.Emeralds, engine.Emerald)
	}
	if t.Diamonds > 0 {
		reward += " " + ui.Price(t.Diamonds, engine.Diamond)
	}
	fmt.Fprintf(out, "  %s %s %s %s\n", ui.Muted.Render(shortID(t.ID)), t.Title, ui.Muted.Render(reward), ui.StatusText(t.Status))
	for _, s := range t.Steps {
		box := "[ ]"
		if s.Completed {
			box = "[x]"
		}
		fmt.Fprintf(out, "      %s %s %s\n", box, s.Text, ui.Muted.Render(shortID(s.ID)))
	}
	if t.ParentFeedback != "" {
		fmt.Fprintf(out, "      %s %s\n", ui.IconMail, t.ParentFeedback)
	}
}
