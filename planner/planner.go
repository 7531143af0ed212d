// Package planner turns an objective and run history into the next
// Plan by prompting a completion backend through a Transport.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mwielosz/quest"
)

// Compile-time interface check.
var _ quest.Planner = (*Planner)(nil)

// Planner composes the tool-overview prompt, sends the conversation
// state to a Transport, and parses the structured plan from the reply.
type Planner struct {
	transport quest.Transport
	registry  *quest.Registry
}

// New creates a Planner over the given transport and tool registry.
func New(transport quest.Transport, registry *quest.Registry) *Planner {
	return &Planner{transport: transport, registry: registry}
}

// Plan produces the next Plan for an objective. Backend failures are
// returned as errors; a reply that cannot be parsed as a plan degrades
// into a final-answer Plan carrying the raw text, so the run always
// terminates on ill-formed output instead of looping.
func (p *Planner) Plan(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error) {
	userMessage, err := encodeState(objective, history, observation)
	if err != nil {
		return quest.Plan{}, fmt.Errorf("encoding planner state: %w", err)
	}

	reply, err := p.transport.Send(ctx, SystemPrompt(p.registry), userMessage)
	if err != nil {
		return quest.Plan{}, fmt.Errorf("completion backend: %w", err)
	}

	plan, err := ParsePlan(reply)
	if err != nil {
		return quest.Plan{
			Thought:     reply,
			IsFinal:     true,
			FinalAnswer: reply,
		}, nil
	}
	return plan, nil
}

// SystemPrompt enumerates every registered tool, in load order, followed
// by the response contract the backend must honor.
func SystemPrompt(registry *quest.Registry) string {
	var b strings.Builder
	b.WriteString("You are an agent that accomplishes objectives by invoking tools.\n")
	b.WriteString("Available tools:\n\n")

	for _, tool := range registry.Tools() {
		fmt.Fprintf(&b, "- %s: %s\n", tool.Name, tool.Description)
		if len(tool.Arguments) == 0 {
			b.WriteString("  No arguments. Pass a simple string as action_input.\n")
			continue
		}
		b.WriteString("  Arguments:\n")
		for _, arg := range tool.Arguments {
			fmt.Fprintf(&b, "    - %s", arg.Name)
			if arg.Option != "" {
				fmt.Fprintf(&b, " (option %s)", arg.Option)
			}
			if arg.Required {
				b.WriteString(" (required)")
			} else {
				b.WriteString(" (optional)")
			}
			if arg.Description != "" {
				b.WriteString(": " + arg.Description)
			}
			b.WriteByte('\n')
		}
	}

	b.WriteString(`
Reply with a single JSON object with exactly these keys:
  "thought": your reasoning about the next step
  "action": the name of the tool to invoke, or "" when finishing
  "action_input": the tool input; a JSON object mapping argument names
    to values when the tool declares arguments, otherwise a string
  "is_final": true when the objective is complete
  "final_answer": the answer to the objective, only when is_final is true

Do not include any text outside the JSON object.
`)
	return b.String()
}

// encodeState serializes the conversation state for the user turn.
// History entries go out as JSON strings so the backend sees each
// completed step as one opaque record.
func encodeState(objective string, history []quest.HistoryEntry, observation string) (string, error) {
	steps := make([]string, 0, len(history))
	for _, entry := range history {
		enc, err := json.Marshal(entry)
		if err != nil {
			return "", err
		}
		steps = append(steps, string(enc))
	}

	state := struct {
		Objective   string   `json:"objective"`
		History     []string `json:"history"`
		Observation string   `json:"observation"`
	}{
		Objective:   objective,
		History:     steps,
		Observation: observation,
	}

	enc, err := json.Marshal(state)
	if err != nil {
		return "", err
	}
	return string(enc), nil
}

// ParsePlan decodes a backend reply into a Plan. The reply may be bare
// JSON or JSON wrapped in a markdown code fence. Anything else returns
// an error wrapping quest.ErrMalformedPlan; the caller decides the
// degradation policy.
func ParsePlan(reply string) (quest.Plan, error) {
	text := stripFence(strings.TrimSpace(reply))
	if !strings.HasPrefix(text, "{") {
		return quest.Plan{}, fmt.Errorf("%w: reply is not a JSON object", quest.ErrMalformedPlan)
	}

	var plan quest.Plan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return quest.Plan{}, fmt.Errorf("%w: %v", quest.ErrMalformedPlan, err)
	}
	return plan, nil
}

// stripFence unwraps a ```json ... ``` (or plain ```) code fence.
func stripFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest, ok := strings.CutPrefix(s, "```json")
	if !ok {
		rest = strings.TrimPrefix(s, "```")
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	return strings.TrimSpace(rest)
}
