package root

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newAdjustCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adjust <amount> <xp|emerald|diamond|hp>",
		Short: "Add or remove XP, currency or HP by hand (parent)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			amount, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("amount must be an integer")
			}
			kind, err := engine.ParseAdjustKind(args[1])
			if err != nil {
				return err
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			if err := asParent(ctx, svc); err != nil {
				return err
			}

			p, err := svc.AdjustCurrency(ctx, amount, kind)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %+d %s\n", ui.Good.Render(ui.IconSparkle+" Adjusted"), amount, strings.ToLower(string(kind)))
			printProfileLine(cmd, p)
			return nil
		},
	}
}

func newSettingsCmd() *cobra.Command {
	var newPin, name string
	var shop, builder, evidence string
	var xpMult, dmgMult float64

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change family rules (parent)",
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
			st := snap.Settings
			changed := cmd.Flags().Changed

			if changed("new-pin") || changed("name") || changed("shop") || changed("builder") ||
				changed("evidence") || changed("xp-multiplier") || changed("damage-multiplier") {
				if err := asParent(ctx, svc); err != nil {
					return err
				}
				rules := st.Rules
				toggles := []struct {
					flag, value string
					dst         *bool
				}{
					{"shop", shop, &rules.AllowShop},
					{"builder", builder, &rules.AllowBuilder},
					{"evidence", evidence, &rules.RequireEvidence},
				}
				for _, tg := range toggles {
					if !changed(tg.flag) {
						continue
					}
					v, err := parseOnOff(tg.value)
					if err != nil {
						return fmt.Errorf("--%s: %w", tg.flag, err)
					}
					*tg.dst = v
				}
				if changed("xp-multiplier") {
					rules.XPMultiplier = xpMult
				}
				if changed("damage-multiplier") {
					rules.DamageMultiplier = dmgMult
				}
				pin := st.ParentPin
				if changed("new-pin") {
					pin = newPin
				}
				if st, err = svc.UpdateSettings(ctx, pin, name, rules); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Settings saved"))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconScroll, st.FamilyName))
			fmt.Fprintln(out, ui.LabelValue("Shop", onOff(st.Rules.AllowShop)))
			fmt.Fprintln(out, ui.LabelValue("Builder", onOff(st.Rules.AllowBuilder)))
			fmt.Fprintln(out, ui.LabelValue("Evidence required", onOff(st.Rules.RequireEvidence)))
			fmt.Fprintln(out, ui.LabelValue("XP multiplier", st.Rules.XPMultiplier))
			fmt.Fprintln(out, ui.LabelValue("Damage multiplier", st.Rules.DamageMultiplier))
			fmt.Fprintln(out, ui.LabelValue("Last reset", st.LastReset))
			return nil
		},
	}

	cmd.Flags().StringVar(&newPin, "new-pin", "", "New parent PIN")
	cmd.Flags().StringVar(&name, "name", "", "Family name")
	cmd.Flags().StringVar(&shop, "shop", "", "Shop open (on|off)")
	cmd.Flags().StringVar(&builder, "builder", "", "Builder open (on|off)")
	cmd.Flags().StringVar(&evidence, "evidence", "", "Require evidence (on|off)")
	cmd.Flags().Float64Var(&xpMult, "xp-multiplier", 1, "XP multiplier")
	cmd.Flags().Float64Var(&dmgMult, "damage-multiplier", 1, "Damage multiplier")

	return cmd
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("want on or off, got %q", s)
}

func onOff(v bool) string {
	if v {
		return ui.Good.Render("on")
	}
	return ui.Bad.Render("off")
}

func newMessageCmd() *cobra.Command {
	var from string
	var read bool

	cmd := &cobra.Command{
		Use:   "message [text]",
		Short: "Send a message, or list messages when no text is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sender, err := engine.ParseSender(from)
			if err != nil {
				return err
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				if sender == engine.SenderMaster {
					if err := asParent(ctx, svc); err != nil {
						return err
					}
				}
				msg, err := svc.SendMessage(ctx, args[0], sender)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s sent by %s\n", ui.IconMail, strings.ToLower(string(msg.Sender)))
				return nil
			}

			snap, err := svc.Snapshot(ctx)
			if err != nil {
				return err
			}
			for _, m := range snap.Messages {
				mark := " "
				if !m.Read {
					mark = ui.Gold.Render("*")
				}
				fmt.Fprintf(out, "%s %s %-6s %s\n", mark, ui.Muted.Render(m.Timestamp.Format("Jan 2 15:04")), m.Sender, m.Text)
			}
			if read {
				// Reading marks the other side's messages.
				other := engine.SenderMaster
				if sender == engine.SenderMaster {
					other = engine.SenderPlayer
				}
				if _, err := svc.MarkMessagesRead(ctx, other); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "master", "Sender (master|player)")
	cmd.Flags().BoolVar(&read, "read", false, "Mark the other side's messages as read")

	return cmd
}

func newGoalCmd() *cobra.Command {
	var target int

	cmd := &cobra.Command{
		Use:   "goal [title]",
		Short: "Show the family goal, or set a new one (parent)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			var g engine.Goal
			if len(args) == 1 {
				if err := asParent(ctx, svc); err != nil {
					return err
				}
				if g, err = svc.UpdateGoal(ctx, args[0], target); err != nil {
					return err
				}
			} else {
				snap, err := svc.Snapshot(ctx)
				if err != nil {
					return err
				}
				g = snap.Goal
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconTrophy, g.Title))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d/%d %s (%d%%)\n", ui.Bar(g.CurrentEmeralds, g.TargetEmeralds, 30),
				g.CurrentEmeralds, g.TargetEmeralds, ui.IconEmerald, g.Percent())
			return nil
		},
	}

	cmd.Flags().IntVarP(&target, "target", "t", 1000, "Emeralds needed")

	return cmd
}
