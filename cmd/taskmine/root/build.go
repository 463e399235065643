package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Place blocks on your world canvas",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			return printCanvas(ctx, cmd, svc)
		},
	}
	cmd.AddCommand(
		newBlockCmd("paint <block> <x> <y>", "Place one block, swapping any block already there", true,
			func(ctx context.Context, svc *engine.Service, id string, x, y int) (string, error) {
				return "Placed.", svc.PlaceBlock(ctx, id, x, y)
			}),
		newBlockCmd("fill <block> <x> <y>", "Flood-fill the connected area with a block", true,
			func(ctx context.Context, svc *engine.Service, id string, x, y int) (string, error) {
				n, err := svc.FillBlocks(ctx, id, x, y)
				return fmt.Sprintf("Filled %d cell(s).", n), err
			}),
		newBlockCmd("erase <x> <y>", "Pick a block back up into your chest", false,
			func(ctx context.Context, svc *engine.Service, _ string, x, y int) (string, error) {
				removed, err := svc.EraseBlock(ctx, x, y)
				if !removed {
					return "Nothing there.", err
				}
				return "Erased.", err
			}),
		&cobra.Command{
			Use:   "clear",
			Short: "Return every placed block to your chest",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := context.Background()
				svc, cleanup, err := openService(ctx)
				if err != nil {
					return err
				}
				defer cleanup()
				if err := svc.ClearCanvas(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Canvas cleared."))
				return nil
			},
		},
	)
	return cmd
}

type blockAction func(ctx context.Context, svc *engine.Service, rewardID string, x, y int) (string, error)

func newBlockCmd(use, short string, needsBlock bool, action blockAction) *cobra.Command {
	nargs := 2
	if needsBlock {
		nargs = 3
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			x, errX := strconv.Atoi(args[nargs-2])
			y, errY := strconv.Atoi(args[nargs-1])
			if errX != nil || errY != nil {
				return fmt.Errorf("coordinates must be integers")
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rewardID := ""
			if needsBlock {
				snap, err := svc.Snapshot(ctx)
				if err != nil {
					return err
				}
				r, err := findReward(snap, args[0])
				if err != nil {
					return err
				}
				rewardID = r.ID
			}
			msg, err := action(ctx, svc, rewardID, x, y)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPickaxe+" "+msg))
			return printCanvas(ctx, cmd, svc)
		},
	}
}

func printCanvas(ctx context.Context, cmd *cobra.Command, svc *engine.Service) error {
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, ui.Canvas(snap.Profile, svc.Tuning().GridSize))
	for _, r := range snap.Rewards {
		if r.Type != engine.RewardBlock {
			continue
		}
		fmt.Fprintf(out, "%s %s: %d in chest, %d placed\n", ui.Muted.Render(r.ID), r.Title,
			snap.Profile.Inventory[r.ID], engine.PlacedCount(snap.Profile, r.ID))
	}
	return nil
}
