package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
)

// RunBoard opens the child dashboard. It redraws whenever the family's
// state changes, including changes made by the server in this process.
func RunBoard(ctx context.Context, svc *engine.Service, out io.Writer) error {
	changes, cancel := svc.Subscribe()
	defer cancel()

	m := newBoardModel(ctx, svc, changes)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
