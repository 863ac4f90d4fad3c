package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tasks/internal/ui"
)

// ------- styling helpers (Lip Gloss) -------
type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	accent   lipgloss.Style
	danger   lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style

	panel      lipgloss.Style
	inputBox   lipgloss.Style
	inputFocus lipgloss.Style
	alertBox   lipgloss.Style
}

func newStyles(theme ui.Theme) styles {
	var accent, danger, border lipgloss.TerminalColor = lipgloss.Color("12"), lipgloss.Color("9"), lipgloss.Color("8")
	rounded := lipgloss.RoundedBorder()
	switch theme.Name {
	case "neon":
		accent, danger = lipgloss.Color("14"), lipgloss.Color("13")
	case "mono":
		accent, danger, border = lipgloss.NoColor{}, lipgloss.NoColor{}, lipgloss.NoColor{}
		rounded = lipgloss.NormalBorder()
	}

	s := styles{
		title:    lipgloss.NewStyle().Bold(true),
		muted:    lipgloss.NewStyle().Faint(true),
		accent:   lipgloss.NewStyle().Foreground(accent),
		danger:   lipgloss.NewStyle().Foreground(danger).Bold(true),
		selected: lipgloss.NewStyle().Bold(true).Reverse(true),
		help:     lipgloss.NewStyle().Faint(true),
	}
	s.panel = lipgloss.NewStyle().Border(rounded).BorderForeground(border).Padding(0, 1)
	s.inputBox = lipgloss.NewStyle().Border(rounded).BorderForeground(border).Padding(0, 1)
	s.inputFocus = s.inputBox.BorderForeground(accent)
	s.alertBox = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(danger).Padding(1, 3)
	return s
}
