package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var activity int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show player stats, rank and today's gates",
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
			rank := engine.RankForLevel(p.Level)

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, p.Name+" of "+snap.Settings.FamilyName))
			printProfileLine(cmd, p)
			fmt.Fprintln(out, ui.LabelValue("Rank", fmt.Sprintf("%s %s %s", rank.Icon, rank.Label, ui.Muted.Render(rank.Description))))
			if next, ok := engine.NextRank(p.Level); ok {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("  next: %s %s at level %d", next.Icon, next.Label, next.MinLevel)))
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", p.Streak))
			fmt.Fprintln(out, "")

			tun := svc.Tuning()
			hour := svc.Now().Hour()
			fmt.Fprintln(out, ui.H2.Render("🔓 Gates"))
			fmt.Fprintf(out, "- %s %s %s\n", ui.Key.Render("Now:"), ui.PeriodIcon(tun.PeriodAt(hour)), tun.PeriodAt(hour))
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Shop:"), enabledStr(engine.CanShop(snap.Settings.Rules) == nil))
			fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("Builder:"), enabledStr(engine.CanBuild(snap.Settings.Rules) == nil))
			fmt.Fprintf(out, "- %s %d %s\n", ui.Key.Render("Penalty per missed quest:"), tun.PenaltyFor(snap.Settings.Rules), ui.IconHeart)
			if p.HP <= 0 {
				fmt.Fprintln(out, ui.Bad.Render(ui.IconSkull+" Out of HP: buy a potion or ask a parent to heal you."))
			}
			fmt.Fprintln(out, "")

			counts := map[engine.Status]int{}
			for _, t := range snap.Tasks {
				counts[t.Status]++
			}
			fmt.Fprintln(out, ui.H2.Render(ui.IconQuest+" Quests"))
			for _, st := range []engine.Status{engine.StatusPending, engine.StatusStarted, engine.StatusDoing, engine.StatusCompleted, engine.StatusApproved, engine.StatusRejected, engine.StatusFailed} {
				if counts[st] > 0 {
					fmt.Fprintf(out, "- %s %d\n", ui.StatusText(st), counts[st])
				}
			}
			if n := snap.UnreadFrom(engine.SenderMaster); n > 0 {
				fmt.Fprintf(out, "%s %d unread message(s)\n", ui.IconMail, n)
			}

			if activity > 0 {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.H2.Render(ui.IconScroll+" Activity"))
				acts := snap.Activities
				if len(acts) > activity {
					acts = acts[:activity]
				}
				for _, a := range acts {
					amount := ""
					if a.Amount != 0 {
						amount = fmt.Sprintf(" %+d %s", a.Amount, a.Currency)
					}
					fmt.Fprintf(out, "  %s %-14s %s%s\n", ui.Muted.Render(a.Timestamp.Format("Jan 2 15:04")), a.Type, a.Detail, ui.Muted.Render(amount))
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&activity, "activity", "a", 5, "Recent activity entries to show")

	return cmd
}

func printProfileLine(cmd *cobra.Command, p engine.Profile) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s %s %d/%d  %s  %s\n",
		ui.LabelValue("Level", p.Level),
		ui.XPBar(p, 20),
		ui.IconHeart, ui.HPBar(p.HP, p.MaxHP, 10), p.HP, p.MaxHP,
		ui.Price(p.Emeralds, engine.Emerald),
		ui.Price(p.Diamonds, engine.Diamond),
	)
}

func enabledStr(ok bool) string {
	if ok {
		return ui.Good.Render("open")
	}
	return ui.Bad.Render("closed")
}
