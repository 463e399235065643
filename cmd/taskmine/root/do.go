package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

func exactlyOne(what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New(what + " is required")
		}
		return nil
	}
}

func newTaskStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <id>",
		Short: "Start a quest",
		Args:  exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := withTask(ctx, svc, args[0], func(id string) (engine.Task, error) {
				return svc.StartTask(ctx, id)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.H2.Render(ui.IconPickaxe+" Started"), t.Title, ui.StatusText(t.Status))
			return nil
		},
	}
}

func newTaskStepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "step <task-id> <step-id|number>",
		Short: "Tick or untick an objective",
		Args:  cobra.ExactArgs(2),
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
			task, err := findTask(snap, args[0])
			if err != nil {
				return err
			}
			stepID, err := findStep(task, args[1])
			if err != nil {
				return err
			}
			t, err := svc.ToggleStep(ctx, task.ID, stepID)
			if err != nil {
				return err
			}
			done := 0
			for _, s := range t.Steps {
				if s.Completed {
					done++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.IconDone, t.Title,
				ui.Muted.Render(fmt.Sprintf("(%d/%d objectives)", done, len(t.Steps))), ui.StatusText(t.Status))
			return nil
		},
	}
}

// findStep accepts a step id, an id prefix, or a 1-based position.
func findStep(t engine.Task, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(t.Steps) {
		return t.Steps[n-1].ID, nil
	}
	for _, s := range t.Steps {
		if s.ID == ref || (ref != "" && strings.HasPrefix(s.ID, ref)) {
			return s.ID, nil
		}
	}
	return "", engine.ErrUnknownStep
}

func newTaskSubmitCmd() *cobra.Command {
	var url string
	var drawing bool

	cmd := &cobra.Command{
		Use:     "submit <id>",
		Aliases: []string{"do", "done"},
		Short:   "Hand a finished quest in for review",
		Args:    exactlyOne("id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			typ := engine.EvidencePhoto
			if drawing {
				typ = engine.EvidenceDrawing
			}
			t, err := withTask(ctx, svc, args[0], func(id string) (engine.Task, error) {
				return svc.SubmitEvidence(ctx, id, url, typ)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconDone+" Submitted"), t.Title, ui.StatusText(t.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "evidence", "", "Photo or drawing URL")
	cmd.Flags().BoolVar(&drawing, "drawing", false, "Evidence is a drawing")

	return cmd
}

// withTask resolves ref to a task id and runs fn with it.
func withTask(ctx context.Context, svc *engine.Service, ref string, fn func(id string) (engine.Task, error)) (engine.Task, error) {
	snap, err := svc.Snapshot(ctx)
	if err != nil {
		return engine.Task{}, err
	}
	t, err := findTask(snap, ref)
	if err != nil {
		return engine.Task{}, err
	}
	return fn(t.ID)
}
