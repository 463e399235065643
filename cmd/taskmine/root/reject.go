package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newTaskRejectCmd() *cobra.Command {
	var feedback string

	cmd := &cobra.Command{
		Use:   "reject <id>",
		Short: "Send a submitted quest back to the player (parent)",
		Long: `Reject a quest that is waiting for review.

This will:
- Move the quest to REJECTED so the player can redo it
- Keep its objectives as they are
- Send the feedback to the player as a message

No reward is paid and no HP is lost.`,
		Args: exactlyOne("id"),
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
			before, err := findTask(snap, args[0])
			if err != nil {
				return err
			}
			t, err := svc.RejectTask(ctx, before.ID, feedback)
			if err != nil {
				return err
			}
			line := fmt.Sprintf("%s %s %s", ui.Warn.Render(ui.IconWarn+" Sent back"), t.Title, ui.StatusText(t.Status))
			fmt.Fprintln(cmd.OutOrStdout(), line)
			if t.ParentFeedback != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ui.LabelValue("Feedback", t.ParentFeedback))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&feedback, "feedback", "m", "", "What to fix")

	return cmd
}
