package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Browse and buy rewards",
	}
	cmd.AddCommand(newShopListCmd(), newShopBuyCmd(), newShopAddCmd(), newShopDeleteCmd())
	return cmd
}

func newShopListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the shop catalog and your chest",
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
			p := snap.Profile
			fmt.Fprintln(out, ui.Heading(ui.IconChest, "Shop"))
			if !snap.Settings.Rules.AllowShop {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" The shop is closed today."))
			}
			fmt.Fprintf(out, "%s  %s\n\n", ui.Price(p.Emeralds, engine.Emerald), ui.Price(p.Diamonds, engine.Diamond))
			for _, r := range snap.Rewards {
				owned := ""
				if n := p.Inventory[r.ID]; n > 0 {
					owned = ui.Muted.Render(fmt.Sprintf(" (have %d)", n))
				}
				fmt.Fprintf(out, "  %-4s %s %-20s %s %s%s\n", r.ID, r.Icon, r.Title, ui.Price(r.Cost, r.Currency), ui.Muted.Render(string(r.Type)), owned)
			}
			return nil
		},
	}
}

func newShopBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <reward>",
		Short: "Buy a reward by id or name",
		Args:  exactlyOne("reward"),
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
			r, err := findReward(snap, args[0])
			if err != nil {
				return err
			}
			res, err := svc.BuyReward(ctx, r.ID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconChest+" Bought"), r.Title, ui.Muted.Render("-"+ui.Price(r.Cost, r.Currency)))
			switch {
			case res.Healed > 0:
				fmt.Fprintf(out, "  %s +%d HP (%d/%d)\n", ui.IconHeart, res.Healed, res.Profile.HP, res.Profile.MaxHP)
			case res.Stored:
				fmt.Fprintf(out, "  %s in your chest: %d\n", ui.IconChest, res.Profile.Inventory[r.ID])
			}
			return nil
		},
	}
}

func newShopAddCmd() *cobra.Command {
	var in engine.AddRewardInput
	var currency, kind string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a reward to the shop (parent)",
		Args:  exactlyOne("title"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := engine.ParseCurrency(currency)
			if err != nil {
				return err
			}
			t, err := engine.ParseRewardType(kind)
			if err != nil {
				return err
			}
			in.Title, in.Currency, in.Type = args[0], c, t

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := asParent(ctx, svc); err != nil {
				return err
			}

			r, err := svc.AddReward(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), r.Title, ui.Price(r.Cost, r.Currency), ui.Muted.Render("("+r.ID+")"))
			return nil
		},
	}

	cmd.Flags().IntVarP(&in.Cost, "cost", "c", 10, "Price")
	cmd.Flags().StringVar(&currency, "currency", "emerald", "Currency (emerald|diamond)")
	cmd.Flags().StringVarP(&kind, "type", "t", "real_life", "Type (block|outfit|real_life|potion)")
	cmd.Flags().StringVar(&in.Description, "desc", "", "Description")
	cmd.Flags().StringVar(&in.Icon, "icon", "", "Icon")
	cmd.Flags().StringVar(&in.BlockColor, "color", "", "Block colour (#rrggbb), for blocks")

	return cmd
}

func newShopDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <reward>",
		Aliases: []string{"rm"},
		Short:   "Remove a reward from the shop (parent)",
		Args:    exactlyOne("reward"),
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
			r, err := findReward(snap, args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteReward(ctx, r.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Muted.Render("Removed"), r.Title)
			return nil
		},
	}
}
