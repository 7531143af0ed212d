// Package mock provides test doubles for quest interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/mwielosz/quest"
)

// Interface compliance checks.
var (
	_ quest.Transport  = (*Transport)(nil)
	_ quest.Planner    = (*Planner)(nil)
	_ quest.ToolRunner = (*ToolRunner)(nil)
)

// Transport is a test double for quest.Transport.
// Set SendFn before calling Send.
type Transport struct {
	SendFn func(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Send delegates to SendFn.
func (t *Transport) Send(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return t.SendFn(ctx, systemPrompt, userMessage)
}

// Planner is a test double for quest.Planner.
// Set PlanFn before calling Plan.
type Planner struct {
	PlanFn func(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error)
}

// Plan delegates to PlanFn.
func (p *Planner) Plan(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error) {
	return p.PlanFn(ctx, objective, history, observation)
}

// ToolRunner is a test double for quest.ToolRunner.
// Set InvokeFn before calling Invoke.
type ToolRunner struct {
	InvokeFn func(ctx context.Context, tool quest.Tool, payload quest.Payload) string
}

// Invoke delegates to InvokeFn.
func (r *ToolRunner) Invoke(ctx context.Context, tool quest.Tool, payload quest.Payload) string {
	return r.InvokeFn(ctx, tool, payload)
}
