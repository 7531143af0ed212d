package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwielosz/quest"
	"github.com/mwielosz/quest/agent"
	"github.com/mwielosz/quest/invoke"
	"github.com/mwielosz/quest/mock"
	"github.com/mwielosz/quest/planner"
)

func testRegistry() *quest.Registry {
	return quest.NewRegistry([]quest.Tool{
		{Name: "math", Description: "evaluates arithmetic expressions", InvocationPath: "echo"},
	})
}

func TestLoop_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns the final answer when the planner finishes", func(t *testing.T) {
		t.Parallel()
		p := &mock.Planner{
			PlanFn: func(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error) {
				return quest.Plan{IsFinal: true, FinalAnswer: "42"}, nil
			},
		}
		r := &mock.ToolRunner{InvokeFn: func(ctx context.Context, tool quest.Tool, payload quest.Payload) string {
			t.Fatal("no tool should run")
			return ""
		}}

		got, err := agent.New(p, r, testRegistry()).Run(context.Background(), "meaning of life")
		require.NoError(t, err)
		assert.Equal(t, "42", got)
	})

	t.Run("exhausts the turn budget after exactly three cycles", func(t *testing.T) {
		t.Parallel()
		var historyLens []int
		p := &mock.Planner{
			PlanFn: func(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error) {
				historyLens = append(historyLens, len(history))
				return quest.Plan{
					Thought:     "keep trying",
					Action:      "math",
					ActionInput: json.RawMessage(`"1+1"`),
				}, nil
			},
		}
		invocations := 0
		r := &mock.ToolRunner{InvokeFn: func(ctx context.Context, tool quest.Tool, payload quest.Payload) string {
			invocations++
			return "2"
		}}

		var observations int
		got, err := agent.New(p, r, testRegistry()).Run(context.Background(), "never done",
			agent.WithMaxTurns(3),
			agent.WithEventHandler(func(evt quest.Event) {
				if _, ok := evt.(quest.EventObservation); ok {
					observations++
				}
			}),
		)
		require.NoError(t, err)
		assert.Equal(t, agent.ExhaustedAnswer, got)
		assert.Equal(t, []int{0, 1, 2}, historyLens, "history grows by one entry per cycle")
		assert.Equal(t, 3, invocations)
		assert.Equal(t, 3, observations)
	})

	t.Run("unknown tool short-circuits without invoking the runner", func(t *testing.T) {
		t.Parallel()
		var observations []string
		p := &mock.Planner{
			PlanFn: func(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error) {
				observations = append(observations, observation)
				if len(history) > 0 {
					return quest.Plan{IsFinal: true, FinalAnswer: "giving up"}, nil
				}
				return quest.Plan{Action: "does_not_exist", ActionInput: json.RawMessage(`"x"`)}, nil
			},
		}
		r := &mock.ToolRunner{InvokeFn: func(ctx context.Context, tool quest.Tool, payload quest.Payload) string {
			t.Fatal("runner must not be invoked for an unknown tool")
			return ""
		}}

		got, err := agent.New(p, r, testRegistry()).Run(context.Background(), "anything")
		require.NoError(t, err)
		assert.Equal(t, "giving up", got)
		assert.Equal(t, []string{"", "Unknown tool: does_not_exist"}, observations)
	})

	t.Run("normalizes action input before invoking the tool", func(t *testing.T) {
		t.Parallel()
		p := &mock.Planner{
			PlanFn: func(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error) {
				if len(history) > 0 {
					return quest.Plan{IsFinal: true, FinalAnswer: observation}, nil
				}
				return quest.Plan{Action: "math", ActionInput: json.RawMessage(`"2+3"`)}, nil
			},
		}
		var gotPayload quest.Payload
		r := &mock.ToolRunner{InvokeFn: func(ctx context.Context, tool quest.Tool, payload quest.Payload) string {
			gotPayload = payload
			return "5"
		}}

		got, err := agent.New(p, r, testRegistry()).Run(context.Background(), "add 2 and 3")
		require.NoError(t, err)
		assert.Equal(t, "5", got)
		assert.Equal(t, quest.RawPayload{Text: "2+3"}, gotPayload)
	})

	t.Run("propagates backend errors", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("backend down")
		p := &mock.Planner{
			PlanFn: func(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error) {
				return quest.Plan{}, wantErr
			},
		}
		r := &mock.ToolRunner{}

		_, err := agent.New(p, r, testRegistry()).Run(context.Background(), "anything")
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := &mock.Planner{}
		r := &mock.ToolRunner{}
		_, err := agent.New(p, r, testRegistry()).Run(ctx, "anything")
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("emits events in loop order", func(t *testing.T) {
		t.Parallel()
		p := &mock.Planner{
			PlanFn: func(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error) {
				if len(history) > 0 {
					return quest.Plan{IsFinal: true, FinalAnswer: "done"}, nil
				}
				return quest.Plan{Action: "math", ActionInput: json.RawMessage(`"1+1"`)}, nil
			},
		}
		r := &mock.ToolRunner{InvokeFn: func(ctx context.Context, tool quest.Tool, payload quest.Payload) string {
			return "2"
		}}

		var events []quest.Event
		_, err := agent.New(p, r, testRegistry()).Run(context.Background(), "anything",
			agent.WithEventHandler(func(evt quest.Event) { events = append(events, evt) }))
		require.NoError(t, err)

		require.Len(t, events, 5)
		assert.IsType(t, quest.EventPlan{}, events[0])
		assert.IsType(t, quest.EventToolStart{}, events[1])
		assert.IsType(t, quest.EventObservation{}, events[2])
		assert.IsType(t, quest.EventPlan{}, events[3])
		assert.IsType(t, quest.EventFinal{}, events[4])
		assert.Equal(t, "done", events[4].(quest.EventFinal).Answer)
	})
}

// TestLoop_Degradation wires a real planner over a scripted transport:
// an unparsable backend reply must end the run on the first cycle with
// the raw text as the answer.
func TestLoop_Degradation(t *testing.T) {
	t.Parallel()

	calls := 0
	transport := &mock.Transport{
		SendFn: func(ctx context.Context, systemPrompt, userMessage string) (string, error) {
			calls++
			return "not json at all", nil
		},
	}
	registry := testRegistry()
	p := planner.New(transport, registry)
	r := &mock.ToolRunner{InvokeFn: func(ctx context.Context, tool quest.Tool, payload quest.Payload) string {
		t.Fatal("no tool should run")
		return ""
	}}

	got, err := agent.New(p, r, registry).Run(context.Background(), "anything")
	require.NoError(t, err)
	assert.Equal(t, "not json at all", got)
	assert.Equal(t, 1, calls)
}

// TestLoop_EndToEnd exercises the full stack below the transport: real
// planner, real process runner, scripted backend. The math tool is echo,
// so the observation fed back on the second cycle is the expression
// itself.
func TestLoop_EndToEnd(t *testing.T) {
	t.Parallel()

	replies := []string{
		`{"thought":"use the math tool","action":"math","action_input":"2+3","is_final":false,"final_answer":""}`,
		`{"thought":"the tool answered","action":"","action_input":"","is_final":true,"final_answer":"5"}`,
	}
	var sent []string
	transport := &mock.Transport{
		SendFn: func(ctx context.Context, systemPrompt, userMessage string) (string, error) {
			sent = append(sent, userMessage)
			reply := replies[0]
			replies = replies[1:]
			return reply, nil
		},
	}

	registry := testRegistry()
	loop := agent.New(planner.New(transport, registry), invoke.NewRunner(), registry)

	got, err := loop.Run(context.Background(), "add 2 and 3")
	require.NoError(t, err)
	assert.Equal(t, "5", got)

	require.Len(t, sent, 2)
	var state struct {
		Observation string   `json:"observation"`
		History     []string `json:"history"`
	}
	require.NoError(t, json.Unmarshal([]byte(sent[1]), &state))
	assert.Equal(t, "2+3", state.Observation, "echo hands the expression back as the observation")
	require.Len(t, state.History, 1)
	assert.Contains(t, state.History[0], `"observation":"2+3"`)
}
