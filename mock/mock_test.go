package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwielosz/quest"
	"github.com/mwielosz/quest/mock"
)

func TestTransport_Send(t *testing.T) {
	t.Parallel()

	t.Run("delegates to SendFn", func(t *testing.T) {
		t.Parallel()
		tr := mock.Transport{
			SendFn: func(ctx context.Context, systemPrompt, userMessage string) (string, error) {
				assert.Equal(t, "system", systemPrompt)
				assert.Equal(t, "user", userMessage)
				return "reply", nil
			},
		}
		got, err := tr.Send(context.Background(), "system", "user")
		require.NoError(t, err)
		assert.Equal(t, "reply", got)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("backend down")
		tr := mock.Transport{
			SendFn: func(ctx context.Context, systemPrompt, userMessage string) (string, error) {
				return "", wantErr
			},
		}
		_, err := tr.Send(context.Background(), "", "")
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("panics when SendFn not set", func(t *testing.T) {
		t.Parallel()
		tr := mock.Transport{}
		assert.Panics(t, func() {
			_, _ = tr.Send(context.Background(), "", "")
		})
	})
}

func TestPlanner_Plan(t *testing.T) {
	t.Parallel()

	t.Run("delegates to PlanFn", func(t *testing.T) {
		t.Parallel()
		want := quest.Plan{IsFinal: true, FinalAnswer: "done"}
		p := mock.Planner{
			PlanFn: func(ctx context.Context, objective string, history []quest.HistoryEntry, observation string) (quest.Plan, error) {
				assert.Equal(t, "goal", objective)
				assert.Len(t, history, 1)
				assert.Equal(t, "obs", observation)
				return want, nil
			},
		}
		got, err := p.Plan(context.Background(), "goal", []quest.HistoryEntry{{Action: "x"}}, "obs")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("panics when PlanFn not set", func(t *testing.T) {
		t.Parallel()
		p := mock.Planner{}
		assert.Panics(t, func() {
			_, _ = p.Plan(context.Background(), "", nil, "")
		})
	})
}

func TestToolRunner_Invoke(t *testing.T) {
	t.Parallel()

	t.Run("delegates to InvokeFn", func(t *testing.T) {
		t.Parallel()
		r := mock.ToolRunner{
			InvokeFn: func(ctx context.Context, tool quest.Tool, payload quest.Payload) string {
				assert.Equal(t, "math", tool.Name)
				return "5"
			},
		}
		got := r.Invoke(context.Background(), quest.Tool{Name: "math"}, quest.RawPayload{Text: "2+3"})
		assert.Equal(t, "5", got)
	})

	t.Run("panics when InvokeFn not set", func(t *testing.T) {
		t.Parallel()
		r := mock.ToolRunner{}
		assert.Panics(t, func() {
			_ = r.Invoke(context.Background(), quest.Tool{}, quest.EmptyPayload{})
		})
	})
}
