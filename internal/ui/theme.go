package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lucasalcantarap/TaskMine/internal/engine"
)

// TaskMine theme (CLI + TUI).

const (
	IconQuest   = "🗺️"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconHeart   = "❤️"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconChest   = "📦"
	IconPickaxe = "⛏️"
	IconScroll  = "📜"
	IconEmerald = "🟩"
	IconDiamond = "💎"
	IconSkull   = "💀"
	IconMail    = "✉️"
	IconSun     = "☀️"
	IconSunset  = "🌇"
	IconMoon    = "🌙"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
	cDiamond = lipgloss.Color("51")  // cyan
)

var (
	Title   = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2      = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted   = lipgloss.NewStyle().Foreground(cMuted)
	Key     = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good    = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn    = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad     = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold    = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Diamond = lipgloss.NewStyle().Bold(true).Foreground(cDiamond)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)
	ActiveTab   = lipgloss.NewStyle().Bold(true).Foreground(cGold).Underline(true)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusText(s engine.Status) string {
	label := strings.ToLower(string(s))
	switch s {
	case engine.StatusApproved:
		return Good.Render(label)
	case engine.StatusCompleted:
		return Gold.Render("awaiting review")
	case engine.StatusStarted, engine.StatusDoing:
		return H2.Render(label)
	case engine.StatusPending:
		return Warn.Render(label)
	case engine.StatusRejected, engine.StatusFailed:
		return Bad.Render(label)
	default:
		return Muted.Render(label)
	}
}

func PeriodIcon(t engine.TimeOfDay) string {
	switch t {
	case engine.Morning:
		return IconSun
	case engine.Afternoon:
		return IconSunset
	default:
		return IconMoon
	}
}

func CurrencyIcon(c engine.Currency) string {
	if c == engine.Diamond {
		return IconDiamond
	}
	return IconEmerald
}

// Price renders an amount with its currency icon.
func Price(amount int, c engine.Currency) string {
	return fmt.Sprintf("%d %s", amount, CurrencyIcon(c))
}

// HPBar colours the bar by how much health is left.
func HPBar(hp, maxHP, width int) string {
	bar := Bar(hp, maxHP, width)
	switch {
	case maxHP <= 0 || hp*4 <= maxHP:
		return Bad.Render(bar)
	case hp*2 <= maxHP:
		return Warn.Render(bar)
	default:
		return Good.Render(bar)
	}
}

// XPBar shows progress towards the next level.
func XPBar(p engine.Profile, width int) string {
	return Gold.Render(Bar(p.Experience, engine.RequiredXP(p.Level), width))
}

func Bar(value, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	value = max(0, min(value, total))
	filled := value * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// Canvas draws the world grid, two columns per cell.
func Canvas(p engine.Profile, size int) string {
	grid := make(map[[2]int]engine.PlacedBlock, len(p.WorldBlocks))
	for _, b := range p.WorldBlocks {
		grid[[2]int{b.X, b.Y}] = b
	}
	empty := Muted.Render("· ")
	var sb strings.Builder
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			b, ok := grid[[2]int{x, y}]
			if !ok {
				sb.WriteString(empty)
				continue
			}
			color := b.Color
			if color == "" {
				color = engine.DefaultBlockColor
			}
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("██"))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
