package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"quest", "t"},
		Short:   "Manage and play quests",
	}
	cmd.AddCommand(
		newTaskAddCmd(),
		newTaskListCmd(),
		newTaskDeleteCmd(),
		newTaskStartCmd(),
		newTaskStepCmd(),
		newTaskSubmitCmd(),
		newTaskApproveCmd(),
		newTaskRejectCmd(),
	)
	return cmd
}

func newTaskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a quest (parent)",
		Args:    exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := asParent(ctx, svc); err != nil {
				return err
			}

			snap, err := svc.Snapshot(ctx)
			if err != nil {
				return err
			}
			t, err := findTask(snap, args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteTask(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Muted.Render("Deleted"), t.Title)
			return nil
		},
	}
}
