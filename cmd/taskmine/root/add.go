package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newTaskAddCmd() *cobra.Command {
	var in engine.AddTaskInput
	var period string
	var once bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a quest (parent)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			tod, err := engine.ParseTimeOfDay(period)
			if err != nil {
				return err
			}
			in.Title = args[0]
			in.TimeOfDay = tod
			in.Recurrence = engine.RecurrenceDaily
			if once {
				in.Recurrence = engine.RecurrenceNone
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := asParent(ctx, svc); err != nil {
				return err
			}

			t, err := svc.AddTask(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Added"),
				ui.PeriodIcon(t.TimeOfDay), t.Title,
				ui.Muted.Render(fmt.Sprintf("(%s, +%d XP, %d steps)", shortID(t.ID), t.Points, len(t.Steps))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "when", "w", "morning", "Time of day (morning|afternoon|night)")
	cmd.Flags().IntVarP(&in.Points, "xp", "x", 10, "XP reward")
	cmd.Flags().IntVarP(&in.Emeralds, "emeralds", "e", 0, "Emerald reward")
	cmd.Flags().IntVarP(&in.Diamonds, "diamonds", "d", 0, "Diamond reward")
	cmd.Flags().StringVar(&in.Description, "desc", "", "Description")
	cmd.Flags().StringArrayVarP(&in.Steps, "step", "s", nil, "Objective (repeatable)")
	cmd.Flags().IntVar(&in.DurationMinutes, "minutes", 0, "Expected duration in minutes")
	cmd.Flags().BoolVar(&once, "once", false, "Do not repeat daily")

	return cmd
}
