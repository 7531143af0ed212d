package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwielosz/quest"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Objective lipgloss.Style
	Thought   lipgloss.Style
	ToolCall  lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t quest.Theme) Styles {
	return Styles{
		Objective: lipgloss.NewStyle().Foreground(ansiColor(t.Objective)).Bold(true),
		Thought:   lipgloss.NewStyle().Foreground(ansiColor(t.Thought)).Faint(true),
		ToolCall:  lipgloss.NewStyle().Foreground(ansiColor(t.ToolCall)),
		Error:     lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:   lipgloss.NewStyle().Foreground(ansiColor(t.Success)).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
