package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newTaskApproveCmd() *cobra.Command {
	var feedback string

	cmd := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a submitted quest and pay its reward (parent)",
		Args:  exactlyOne("id"),
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
			res, err := svc.ApproveTask(ctx, t.ID, feedback)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconTrophy+" Approved"), res.Task.Title,
				ui.Muted.Render(fmt.Sprintf("(+%d XP, +%d %s, +%d %s)",
					res.XPGained, res.Task.Emeralds, ui.IconEmerald, res.Task.Diamonds, ui.IconDiamond)))
			if res.LevelUp() {
				p := res.Profile
				fmt.Fprintf(out, "%s %s\n", ui.BadgeLevelUp, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
				if res.BonusDiamonds > 0 {
					fmt.Fprintf(out, "  %s bonus %s\n", ui.Price(res.BonusDiamonds, engine.Diamond), ui.Muted.Render("(HP restored)"))
				}
				if engine.RankForLevel(res.LevelBefore).Label != p.Rank {
					fmt.Fprintf(out, "  %s New armour: %s\n", ui.IconSparkle, ui.Gold.Render(p.Rank))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&feedback, "feedback", "m", "", "Note for the player")

	return cmd
}
