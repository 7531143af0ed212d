// Package tui provides a Bubble Tea progress view for a single
// objective run: each plan, tool invocation and observation is shown as
// it happens, and the final answer is rendered as markdown.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwielosz/quest"
)

// RunFunc pursues the objective, reporting progress through onEvent,
// and returns the final answer. It blocks until the run completes or
// the context is cancelled.
type RunFunc func(ctx context.Context, onEvent func(quest.Event)) (string, error)

// Run creates and runs the Bubble Tea program. It blocks until the run
// finishes or the user quits. The step log stays in the terminal after
// exit, so no alt screen.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m)
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// EventMsg wraps a loop event for delivery to the model.
type EventMsg struct {
	Event quest.Event
}

// DoneMsg signals that the run has completed.
type DoneMsg struct {
	Answer string
	Err    error
}
