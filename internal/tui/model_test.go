package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/storage"
)

func newBoard(t *testing.T) (boardModel, *engine.Service) {
	t.Helper()
	ctx := context.Background()
	store, err := storage.Open(ctx, filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	now := func() time.Time { return time.Date(2026, 7, 1, 8, 0, 0, 0, time.Local) }
	svc := engine.NewService(store, "fam", engine.WithClock(now))
	if _, err := svc.CreateWorld(ctx, engine.CreateWorldInput{PlayerName: "Alex"}); err != nil {
		t.Fatalf("CreateWorld: %v", err)
	}
	if _, err := svc.AddTask(ctx, engine.AddTaskInput{
		Title: "Tidy room", TimeOfDay: engine.Morning, Points: 20, Steps: []string{"Bed", "Toys"},
	}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	if _, err := svc.AddTask(ctx, engine.AddTaskInput{Title: "Read", TimeOfDay: engine.Night, Points: 10}); err != nil {
		t.Fatalf("AddTask: %v", err)
	}
	return newBoardModel(ctx, svc, nil), svc
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m boardModel, cmd tea.Cmd) boardModel {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		next, c := m.Update(msg)
		m = next.(boardModel)
		cmd = c
	}
	return m
}

func press(t *testing.T, m boardModel, key string) boardModel {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return run(t, next.(boardModel), cmd)
}

func TestBoardOpensOnCurrentPeriod(t *testing.T) {
	m, _ := newBoard(t)
	m = run(t, m, m.loadCmd())

	if periods[m.tab] != engine.Morning {
		t.Fatalf("tab=%s, want morning at 08:00", periods[m.tab])
	}
	lines := m.lines()
	if len(lines) != 1 || lines[0].title != "Tidy room" {
		t.Fatalf("lines=%+v", lines)
	}
	view := m.View()
	if !strings.Contains(view, "Alex") || !strings.Contains(view, "Tidy room") {
		t.Fatalf("view missing player or quest:\n%s", view)
	}

	m = press(t, m, "tab")
	m = press(t, m, "tab")
	if lines := m.lines(); len(lines) != 1 || lines[0].title != "Read" {
		t.Fatalf("night lines=%+v", lines)
	}
}

func TestBoardStartTickAndSubmit(t *testing.T) {
	m, svc := newBoard(t)
	m = run(t, m, m.loadCmd())

	m = press(t, m, "s")
	if !strings.Contains(m.lastLog, "Started Tidy room") {
		t.Fatalf("lastLog=%q", m.lastLog)
	}

	m = press(t, m, "d")
	if !strings.Contains(m.lastLog, "Submit failed") {
		t.Fatalf("submit with open objectives should fail, lastLog=%q", m.lastLog)
	}

	m = press(t, m, "enter")
	if len(m.lines()) != 3 {
		t.Fatalf("expected task plus two objectives, got %d", len(m.lines()))
	}
	m = press(t, m, "down")
	m = press(t, m, " ")
	m = press(t, m, "down")
	m = press(t, m, " ")

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !snap.Tasks[0].StepsDone() {
		t.Fatalf("steps=%+v", snap.Tasks[0].Steps)
	}

	rules := snap.Settings.Rules
	rules.RequireEvidence = false
	if _, err := svc.UpdateSettings(context.Background(), engine.DefaultParentPin, "", rules); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}

	m.selected = 0
	m = press(t, m, "d")
	snap, _ = svc.Snapshot(context.Background())
	if snap.Tasks[0].Status != engine.StatusCompleted {
		t.Fatalf("status=%s lastLog=%q", snap.Tasks[0].Status, m.lastLog)
	}
}

func TestBoardNoWorld(t *testing.T) {
	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	m := newBoardModel(context.Background(), engine.NewService(store, "nobody"), nil)
	m = run(t, m, m.loadCmd())
	if !strings.Contains(m.View(), "taskmine init") {
		t.Fatalf("view=%q", m.View())
	}
}
