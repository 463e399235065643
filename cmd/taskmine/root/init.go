package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newInitCmd() *cobra.Command {
	var in engine.CreateWorldInput
	var newSeed bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new world for the family",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if newSeed {
				flags.family = engine.NewWorldSeed()
			}
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if force {
				if err := wipeWorld(ctx, a); err != nil {
					return err
				}
			}

			created, err := a.svc.CreateWorld(ctx, in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !created {
				fmt.Fprintf(out, "%s World %s already exists (use --force to start over).\n", ui.IconInfo, ui.Key.Render(a.svc.Family()))
				return nil
			}
			snap, err := a.svc.Snapshot(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.Heading(ui.IconPickaxe, "World created"))
			fmt.Fprintln(out, ui.LabelValue("Seed", a.svc.Family()))
			fmt.Fprintln(out, ui.LabelValue("Family", snap.Settings.FamilyName))
			fmt.Fprintln(out, ui.LabelValue("Player", snap.Profile.Name))
			if in.ParentPin == "" {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" Parent PIN is the default "+engine.DefaultParentPin+"; change it with `taskmine settings`."))
			}
			if newSeed {
				fmt.Fprintf(out, "%s Use %s (or set family.id) to play in this world.\n", ui.IconInfo, ui.Key.Render("--family "+a.svc.Family()))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.FamilyName, "name", "", "Family / world name")
	cmd.Flags().StringVar(&in.PlayerName, "player", "", "Player (child) name")
	cmd.Flags().StringVar(&in.ParentPin, "parent-pin", "", "Parent PIN (default "+engine.DefaultParentPin+")")
	cmd.Flags().BoolVar(&newSeed, "new-seed", false, "Generate a fresh world seed as the family id")
	cmd.Flags().BoolVar(&force, "force", false, "Delete the existing world first (needs --pin)")

	return cmd
}

// wipeWorld deletes the family's world. The parent PIN is only asked for
// when there is a world to lose.
func wipeWorld(ctx context.Context, a *app) error {
	if _, err := a.svc.Snapshot(ctx); errors.Is(err, engine.ErrNoWorld) {
		return nil
	} else if err != nil {
		return err
	}
	if err := asParent(ctx, a.svc); err != nil {
		return err
	}
	return a.store.DeleteFamily(ctx, a.svc.Family())
}
