package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
	"github.com/lucasalcantarap/TaskMine/internal/storage"
	"github.com/lucasalcantarap/TaskMine/internal/ui"
)

var periods = []engine.TimeOfDay{engine.Morning, engine.Afternoon, engine.Night}

type boardModel struct {
	ctx     context.Context
	svc     *engine.Service
	changes <-chan storage.Change

	width  int
	height int

	snap *engine.Snapshot

	tab      int
	expanded map[string]bool
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	snap engine.Snapshot
	err  error
}

type changedMsg struct{}

type actionMsg struct {
	text string
	err  error
}

func newBoardModel(ctx context.Context, svc *engine.Service, changes <-chan storage.Change) boardModel {
	m := boardModel{
		ctx:      ctx,
		svc:      svc,
		changes:  changes,
		expanded: map[string]bool{},
		loading:  true,
		lastLog:  "Loaded.",
	}
	m.tab = periodIndex(svc.Tuning().PeriodAt(svc.Now().Hour()))
	return m
}

func periodIndex(t engine.TimeOfDay) int {
	for i, p := range periods {
		if p == t {
			return i
		}
	}
	return 0
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitCmd())
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := m.svc.Snapshot(m.ctx)
		return loadedMsg{snap: snap, err: err}
	}
}

// waitCmd blocks until the store reports a change for this family.
func (m boardModel) waitCmd() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-m.changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m boardModel) act(label string, fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		text, err := fn()
		if err != nil {
			return actionMsg{text: label + " failed: " + err.Error(), err: err}
		}
		return actionMsg{text: text}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.snap = &msg.snap
		m.clampSelection()
		return m, nil
	case changedMsg:
		return m, tea.Batch(m.loadCmd(), m.waitCmd())
	case actionMsg:
		m.lastLog = msg.text
		if m.changes == nil && msg.err == nil {
			return m, m.loadCmd()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		m.loading = true
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, m.loadCmd()
	case "tab", "right", "l":
		m.tab = (m.tab + 1) % len(periods)
		m.selected = 0
		return m, nil
	case "shift+tab", "left", "h":
		m.tab = (m.tab + len(periods) - 1) % len(periods)
		m.selected = 0
		return m, nil
	case "1", "2", "3":
		m.tab = int(msg.String()[0] - '1')
		m.selected = 0
		return m, nil
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.lines())-1 {
			m.selected++
		}
		return m, nil
	case "m":
		return m, m.act("Read messages", func() (string, error) {
			n, err := m.svc.MarkMessagesRead(m.ctx, engine.SenderMaster)
			return fmt.Sprintf("%d message(s) marked read.", n), err
		})
	}

	line, ok := m.current()
	if !ok {
		return m, nil
	}
	switch msg.String() {
	case "enter":
		if line.stepID == "" && line.steps > 0 {
			m.expanded[line.taskID] = !m.expanded[line.taskID]
		}
		return m, nil
	case " ", "x":
		if line.stepID == "" {
			m.lastLog = "Select an objective to tick it off."
			return m, nil
		}
		return m, m.act("Toggle", func() (string, error) {
			t, err := m.svc.ToggleStep(m.ctx, line.taskID, line.stepID)
			return fmt.Sprintf("%s is now %s.", t.Title, strings.ToLower(string(t.Status))), err
		})
	case "s":
		return m, m.act("Start", func() (string, error) {
			t, err := m.svc.StartTask(m.ctx, line.taskID)
			return "Started " + t.Title + ".", err
		})
	case "d", "c":
		return m, m.act("Submit", func() (string, error) {
			t, err := m.svc.SubmitEvidence(m.ctx, line.taskID, "", "")
			if errors.Is(err, engine.ErrEvidenceRequired) {
				return "", fmt.Errorf("%w (submit a photo from the app)", err)
			}
			return t.Title + " sent for review.", err
		})
	}
	return m, nil
}

type questLine struct {
	taskID string
	stepID string
	title  string
	status engine.Status
	done   bool
	steps  int
	points int
}

func (m boardModel) lines() []questLine {
	if m.snap == nil {
		return nil
	}
	var out []questLine
	for _, t := range m.snap.TasksFor(periods[m.tab]) {
		out = append(out, questLine{
			taskID: t.ID,
			title:  t.Title,
			status: t.Status,
			steps:  len(t.Steps),
			points: t.Points,
		})
		if !m.expanded[t.ID] {
			continue
		}
		for _, s := range t.Steps {
			out = append(out, questLine{taskID: t.ID, stepID: s.ID, title: s.Text, done: s.Completed})
		}
	}
	return out
}

func (m boardModel) current() (questLine, bool) {
	lines := m.lines()
	if m.selected < 0 || m.selected >= len(lines) {
		return questLine{}, false
	}
	return lines[m.selected], true
}

func (m *boardModel) clampSelection() {
	n := len(m.lines())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m boardModel) View() string {
	if m.err != nil {
		if errors.Is(m.err, engine.ErrNoWorld) {
			return "No world yet. Run `taskmine init` first.\n\nPress q to quit.\n"
		}
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	if m.snap == nil {
		return "TaskMine: loading…\n"
	}

	sideW := 30
	if m.width > 0 && m.width/3 < sideW {
		sideW = max(m.width/3, 20)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		ui.Panel.Width(sideW).Render(m.renderSidebar()),
		" ",
		ui.Panel.Render(m.renderMain()),
	)
	return m.renderHeader() + "\n" + body + "\n" + m.lastLog + "\n"
}

func (m boardModel) renderHeader() string {
	p := m.snap.Profile
	rank := engine.RankForLevel(p.Level)
	return fmt.Sprintf("%s  %s %s  Lv %d %s  %s %d/%d %s  %s %d  %s %d",
		ui.Heading(ui.IconPickaxe, m.snap.Settings.FamilyName),
		rank.Icon, p.Name,
		p.Level, ui.XPBar(p, 20),
		ui.IconHeart, p.HP, p.MaxHP, ui.HPBar(p.HP, p.MaxHP, 10),
		ui.IconEmerald, p.Emeralds,
		ui.IconDiamond, p.Diamonds,
	)
}

func (m boardModel) renderSidebar() string {
	lines := []string{ui.PanelTitle.Render("Goal")}
	g := m.snap.Goal
	lines = append(lines, g.Title, fmt.Sprintf("%s %d%%", ui.Bar(g.CurrentEmeralds, g.TargetEmeralds, 14), g.Percent()))
	if n := m.snap.UnreadFrom(engine.SenderMaster); n > 0 {
		lines = append(lines, "", ui.Gold.Render(fmt.Sprintf("%s %d new message(s)", ui.IconMail, n)))
		for _, msg := range m.snap.Messages {
			if msg.Sender == engine.SenderMaster && !msg.Read {
				lines = append(lines, "- "+msg.Text)
			}
		}
	}
	lines = append(lines, "", ui.PanelTitle.Render("Keys"),
		"- tab/1-3: period",
		"- ↑/↓ or j/k: move",
		"- enter: objectives",
		"- space: tick objective",
		"- s: start  d: done",
		"- m: read messages",
		"- r: refresh  q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	var tabs []string
	for i, p := range periods {
		label := fmt.Sprintf("%s %s", ui.PeriodIcon(p), strings.ToUpper(string(p[:1]))+string(p[1:]))
		if i == m.tab {
			label = ui.ActiveTab.Render(label)
		} else {
			label = ui.Muted.Render(label)
		}
		tabs = append(tabs, label)
	}
	out := []string{strings.Join(tabs, "   "), ""}

	if m.loading {
		return strings.Join(append(out, "Loading…"), "\n")
	}
	lines := m.lines()
	if len(lines) == 0 {
		return strings.Join(append(out, ui.Muted.Render("(no quests)")), "\n")
	}
	for i, ql := range lines {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		var row string
		if ql.stepID != "" {
			box := "[ ]"
			if ql.done {
				box = "[x]"
			}
			row = fmt.Sprintf("%s    %s %s", cursor, box, ql.title)
		} else {
			fold := "  "
			if ql.steps > 0 {
				fold = "▸ "
				if m.expanded[ql.taskID] {
					fold = "▾ "
				}
			}
			row = fmt.Sprintf("%s%s%s  +%d XP  %s", cursor, fold, ql.title, ql.points, ui.StatusText(ql.status))
		}
		if i == m.selected {
			row = ui.SelectedRow.Render(row)
		}
		out = append(out, row)
	}
	return strings.Join(out, "\n")
}
