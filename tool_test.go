package quest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwielosz/quest"
)

func TestToolValidate(t *testing.T) {
	t.Parallel()

	valid := quest.Tool{
		Name:           "math",
		Description:    "Evaluate a mathematical expression",
		InvocationPath: "./tools/math",
		Arguments: []quest.ToolArgument{
			{Name: "expression", Option: "-e", Required: true},
		},
	}

	t.Run("valid tool", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, valid.Validate())
	})

	t.Run("missing fields", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			mutate func(*quest.Tool)
		}{
			{"no name", func(tl *quest.Tool) { tl.Name = "" }},
			{"no description", func(tl *quest.Tool) { tl.Description = "" }},
			{"no invocation path", func(tl *quest.Tool) { tl.InvocationPath = "" }},
			{"unnamed argument", func(tl *quest.Tool) { tl.Arguments[0].Name = "" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()
				tool := valid
				tool.Arguments = append([]quest.ToolArgument(nil), valid.Arguments...)
				tt.mutate(&tool)
				err := tool.Validate()
				require.Error(t, err)
				assert.ErrorIs(t, err, quest.ErrConfig)
			})
		}
	})
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("preserves load order", func(t *testing.T) {
		t.Parallel()
		r := quest.NewRegistry([]quest.Tool{
			{Name: "zeta"},
			{Name: "alpha"},
			{Name: "mid"},
		})
		require.Equal(t, 3, r.Len())
		names := make([]string, 0, 3)
		for _, tool := range r.Tools() {
			names = append(names, tool.Name)
		}
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, names)
	})

	t.Run("lookup", func(t *testing.T) {
		t.Parallel()
		r := quest.NewRegistry([]quest.Tool{{Name: "math", Description: "calc"}})
		tool, ok := r.Get("math")
		require.True(t, ok)
		assert.Equal(t, "calc", tool.Description)

		_, ok = r.Get("does_not_exist")
		assert.False(t, ok)
	})

	t.Run("later duplicate replaces earlier", func(t *testing.T) {
		t.Parallel()
		r := quest.NewRegistry([]quest.Tool{
			{Name: "math", Description: "first"},
			{Name: "other", Description: "unrelated"},
			{Name: "math", Description: "second"},
		})
		require.Equal(t, 2, r.Len())
		tool, ok := r.Get("math")
		require.True(t, ok)
		assert.Equal(t, "second", tool.Description)
		// The replacement keeps the original position.
		assert.Equal(t, "math", r.Tools()[0].Name)
	})
}
