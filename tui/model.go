package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/mwielosz/quest"
	"github.com/mwielosz/quest/markdown"
)

var _ tea.Model = Model{}

// step is one rendered line of run progress.
type step struct {
	kind stepKind
	turn int
	tool string
	text string
}

type stepKind int

const (
	stepThought stepKind = iota
	stepTool
	stepObservation
)

// Model is the Bubble Tea model for a single objective run. The run
// starts on Init and the program stays up until it finishes and the
// user has seen the answer.
type Model struct {
	objective string
	run       RunFunc
	theme     quest.Theme
	styles    Styles
	spinner   spinner.Model

	steps  []step
	answer string
	err    error

	width   int
	running bool
	done    bool

	cancel  context.CancelFunc
	eventCh chan quest.Event
	doneCh  chan DoneMsg
}

// New creates a Model that will pursue the objective via run.
func New(objective string, run RunFunc, theme quest.Theme) Model {
	styles := NewStyles(theme)
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ToolCall

	return Model{
		objective: objective,
		run:       run,
		theme:     theme,
		styles:    styles,
		spinner:   sp,
		width:     80,
	}
}

// Answer returns the final answer once the run is done.
func (m Model) Answer() string { return m.answer }

// Err returns the run error, if any.
func (m Model) Err() error { return m.err }

// Done reports whether the run has finished.
func (m Model) Done() bool { return m.done }

// Init implements tea.Model. It starts the run immediately.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			if m.running && m.cancel != nil {
				m.cancel()
				return m, nil
			}
			return m, tea.Quit
		default:
			if m.done {
				return m, tea.Quit
			}
		}
		return m, nil

	case startedMsg:
		m.running = true
		m.cancel = msg.cancel
		m.eventCh = msg.eventCh
		m.doneCh = msg.doneCh
		return m, listen(m.eventCh, m.doneCh)

	case EventMsg:
		m = m.record(msg.Event)
		return m, listen(m.eventCh, m.doneCh)

	case DoneMsg:
		m.running = false
		m.done = true
		m.answer = msg.Answer
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Objective.Render("» " + m.objective))
	b.WriteString("\n\n")

	for _, s := range m.steps {
		b.WriteString(m.renderStep(s))
		b.WriteByte('\n')
	}

	switch {
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.done:
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render("Answer"))
		b.WriteString("\n")
		b.WriteString(markdown.Render(m.answer, m.width, m.theme))
		b.WriteString("\n")
	case m.running:
		b.WriteString(m.spinner.View())
		b.WriteString(m.styles.Muted.Render(" thinking (ctrl+c to cancel)"))
		b.WriteString("\n")
	}

	return b.String()
}

// record converts a loop event into a progress step. Final answers
// arrive through DoneMsg instead, so EventFinal is skipped here.
func (m Model) record(evt quest.Event) Model {
	switch e := evt.(type) {
	case quest.EventPlan:
		if e.Plan.Thought != "" {
			m.steps = append(m.steps, step{kind: stepThought, turn: e.Turn, text: e.Plan.Thought})
		}
	case quest.EventToolStart:
		m.steps = append(m.steps, step{kind: stepTool, turn: e.Turn, tool: e.Tool})
	case quest.EventObservation:
		m.steps = append(m.steps, step{kind: stepObservation, turn: e.Turn, tool: e.Tool, text: e.Text})
	}
	return m
}

func (m Model) renderStep(s step) string {
	switch s.kind {
	case stepThought:
		return m.styles.Thought.Render(clip("· "+s.text, m.width))
	case stepTool:
		return m.styles.ToolCall.Render(clip("▶ "+s.tool, m.width))
	case stepObservation:
		preview := s.text
		if i := strings.IndexByte(preview, '\n'); i >= 0 {
			preview = preview[:i]
		}
		return m.styles.Muted.Render(clip("  "+preview, m.width))
	}
	return ""
}

// clip truncates a line to the terminal width, accounting for
// double-width runes.
func clip(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// startedMsg carries the run plumbing from start to Update.
type startedMsg struct {
	cancel  context.CancelFunc
	eventCh chan quest.Event
	doneCh  chan DoneMsg
}

// start launches the run in a goroutine; events flow through eventCh
// and the result through doneCh.
func (m Model) start() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		eventCh := make(chan quest.Event, 256)
		doneCh := make(chan DoneMsg, 1)

		go func() {
			answer, err := m.run(ctx, func(e quest.Event) {
				select {
				case eventCh <- e:
				case <-ctx.Done():
				}
			})
			cancel()
			close(eventCh)
			doneCh <- DoneMsg{Answer: answer, Err: err}
		}()

		return startedMsg{cancel: cancel, eventCh: eventCh, doneCh: doneCh}
	}
}

// listen waits for the next event; when the channel closes it delivers
// the run result instead.
func listen(ch <-chan quest.Event, doneCh <-chan DoneMsg) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return <-doneCh
		}
		return EventMsg{Event: evt}
	}
}
