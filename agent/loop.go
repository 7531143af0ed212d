// Package agent drives the bounded objective-pursuit cycle: plan, act,
// observe, repeat, until the planner reports completion or the turn
// budget runs out.
package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mwielosz/quest"
)

// DefaultMaxTurns bounds a run when WithMaxTurns is not given.
const DefaultMaxTurns = 5

// ExhaustedAnswer is returned when the turn budget runs out before the
// planner reports completion.
const ExhaustedAnswer = "I could not complete the objective within the allotted turns."

// Loop orchestrates one objective at a time over a shared read-only
// registry. The planner decides, the runner acts, the loop carries
// observations between them.
type Loop struct {
	planner  quest.Planner
	runner   quest.ToolRunner
	registry *quest.Registry
}

// New creates a Loop with the given planner, tool runner and registry.
func New(planner quest.Planner, runner quest.ToolRunner, registry *quest.Registry) *Loop {
	return &Loop{planner: planner, runner: runner, registry: registry}
}

// RunOption configures a single Run invocation.
type RunOption func(*runConfig)

type runConfig struct {
	maxTurns int
	onEvent  func(quest.Event)
	logger   *slog.Logger
}

// WithMaxTurns sets the turn budget for this run. Values below one are
// ignored.
func WithMaxTurns(n int) RunOption {
	return func(c *runConfig) {
		if n >= 1 {
			c.maxTurns = n
		}
	}
}

// WithEventHandler sets a callback that receives progress events during
// the run. If nil or not set, events are silently discarded.
func WithEventHandler(h func(quest.Event)) RunOption {
	return func(c *runConfig) {
		c.onEvent = h
	}
}

// WithLogger sets the structured logger for this run. Defaults to a
// discard logger.
func WithLogger(logger *slog.Logger) RunOption {
	return func(c *runConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Run pursues the objective and returns the final answer. Completion
// backend failures abort the run with an error; every tool-level
// failure travels through observations instead. When the turn budget
// runs out the fixed ExhaustedAnswer is returned with a nil error.
func (l *Loop) Run(ctx context.Context, objective string, opts ...RunOption) (string, error) {
	cfg := runConfig{
		maxTurns: DefaultMaxTurns,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger.With("run_id", uuid.NewString())
	logger.Info("run started", "objective", objective, "max_turns", cfg.maxTurns)

	var history []quest.HistoryEntry
	observation := ""

	for turn := 1; turn <= cfg.maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		plan, err := l.planner.Plan(ctx, objective, history, observation)
		if err != nil {
			return "", fmt.Errorf("planning turn %d: %w", turn, err)
		}
		logger.Debug("plan received", "turn", turn, "action", plan.Action, "is_final", plan.IsFinal)
		l.emit(&cfg, quest.EventPlan{Turn: turn, Plan: plan})

		if plan.IsFinal {
			logger.Info("run finished", "turns", turn)
			l.emit(&cfg, quest.EventFinal{Answer: plan.FinalAnswer})
			return plan.FinalAnswer, nil
		}

		observation = l.act(ctx, &cfg, turn, plan)
		logger.Debug("observation recorded", "turn", turn, "tool", plan.Action, "bytes", len(observation))

		history = append(history, quest.HistoryEntry{
			Thought:     plan.Thought,
			Action:      plan.Action,
			ActionInput: plan.ActionInput,
			Observation: observation,
		})
	}

	logger.Info("turn budget exhausted", "turns", cfg.maxTurns)
	l.emit(&cfg, quest.EventFinal{Answer: ExhaustedAnswer})
	return ExhaustedAnswer, nil
}

// act executes one planned tool invocation and returns the observation.
// An unknown tool name short-circuits without touching the runner.
func (l *Loop) act(ctx context.Context, cfg *runConfig, turn int, plan quest.Plan) string {
	tool, ok := l.registry.Get(plan.Action)
	if !ok {
		obs := "Unknown tool: " + plan.Action
		l.emit(cfg, quest.EventObservation{Turn: turn, Tool: plan.Action, Text: obs})
		return obs
	}

	l.emit(cfg, quest.EventToolStart{Turn: turn, Tool: tool.Name})
	obs := l.runner.Invoke(ctx, tool, quest.Normalize(plan.ActionInput))
	l.emit(cfg, quest.EventObservation{Turn: turn, Tool: tool.Name, Text: obs})
	return obs
}

func (l *Loop) emit(cfg *runConfig, evt quest.Event) {
	if cfg.onEvent != nil {
		cfg.onEvent(evt)
	}
}
