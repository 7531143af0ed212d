package quest_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwielosz/quest"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want quest.Payload
	}{
		{
			name: "empty input",
			raw:  ``,
			want: quest.EmptyPayload{},
		},
		{
			name: "null input",
			raw:  `null`,
			want: quest.EmptyPayload{},
		},
		{
			name: "empty string",
			raw:  `""`,
			want: quest.EmptyPayload{},
		},
		{
			name: "whitespace string",
			raw:  `"   "`,
			want: quest.EmptyPayload{},
		},
		{
			name: "plain text stays raw",
			raw:  `"plain text"`,
			want: quest.RawPayload{Text: "plain text"},
		},
		{
			name: "plain text is trimmed",
			raw:  `"  2+3  "`,
			want: quest.RawPayload{Text: "2+3"},
		},
		{
			name: "object passes through",
			raw:  `{"a":"b"}`,
			want: quest.StructuredPayload{Fields: []quest.Field{
				{Name: "a", Value: quest.Scalar{Text: "b"}},
			}},
		},
		{
			name: "object preserves key order",
			raw:  `{"z":"1","a":"2","m":"3"}`,
			want: quest.StructuredPayload{Fields: []quest.Field{
				{Name: "z", Value: quest.Scalar{Text: "1"}},
				{Name: "a", Value: quest.Scalar{Text: "2"}},
				{Name: "m", Value: quest.Scalar{Text: "3"}},
			}},
		},
		{
			name: "array passes through",
			raw:  `["x","y"]`,
			want: quest.ListPayload{Items: []quest.Value{
				quest.Scalar{Text: "x"},
				quest.Scalar{Text: "y"},
			}},
		},
		{
			name: "string-encoded object adopts parsed shape",
			raw:  `"{\"path\":\"/tmp/f\"}"`,
			want: quest.StructuredPayload{Fields: []quest.Field{
				{Name: "path", Value: quest.Scalar{Text: "/tmp/f"}},
			}},
		},
		{
			name: "string-encoded array adopts parsed shape",
			raw:  `"[\"a\",\"b\"]"`,
			want: quest.ListPayload{Items: []quest.Value{
				quest.Scalar{Text: "a"},
				quest.Scalar{Text: "b"},
			}},
		},
		{
			name: "string-encoded number becomes raw literal",
			raw:  `"5"`,
			want: quest.RawPayload{Text: "5"},
		},
		{
			name: "quoted literal unwraps once",
			raw:  `"\"hi\""`,
			want: quest.RawPayload{Text: "hi"},
		},
		{
			name: "bare number becomes raw literal",
			raw:  `5`,
			want: quest.RawPayload{Text: "5"},
		},
		{
			name: "bare boolean becomes raw literal",
			raw:  `true`,
			want: quest.RawPayload{Text: "true"},
		},
		{
			name: "number values keep their notation",
			raw:  `{"precision":"high","limit":2.50}`,
			want: quest.StructuredPayload{Fields: []quest.Field{
				{Name: "precision", Value: quest.Scalar{Text: "high"}},
				{Name: "limit", Value: quest.Scalar{Text: "2.50"}},
			}},
		},
		{
			name: "array value becomes sequence",
			raw:  `{"files":["a.txt","b.txt"],"flag":"1"}`,
			want: quest.StructuredPayload{Fields: []quest.Field{
				{Name: "files", Value: quest.Sequence{Items: []string{"a.txt", "b.txt"}}},
				{Name: "flag", Value: quest.Scalar{Text: "1"}},
			}},
		},
		{
			name: "nested object value carried as compact JSON",
			raw:  `{"opts": {"depth": 2}}`,
			want: quest.StructuredPayload{Fields: []quest.Field{
				{Name: "opts", Value: quest.Scalar{Text: `{"depth":2}`}},
			}},
		},
		{
			name: "mixed list stringifies elements",
			raw:  `["run", 7, false]`,
			want: quest.ListPayload{Items: []quest.Value{
				quest.Scalar{Text: "run"},
				quest.Scalar{Text: "7"},
				quest.Scalar{Text: "false"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := quest.Normalize(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, got)
		})
	}
}

// Normalizing the JSON encoding of an already-normalized payload must
// yield the same payload back.
func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	payloads := []quest.Payload{
		quest.EmptyPayload{},
		quest.RawPayload{Text: "plain text"},
		quest.StructuredPayload{Fields: []quest.Field{
			{Name: "path", Value: quest.Scalar{Text: "/tmp/f"}},
			{Name: "files", Value: quest.Sequence{Items: []string{"a", "b"}}},
		}},
		quest.ListPayload{Items: []quest.Value{
			quest.Scalar{Text: "x"},
			quest.Sequence{Items: []string{"y", "z"}},
		}},
	}

	for _, p := range payloads {
		encoded, err := json.Marshal(p)
		require.NoError(t, err)
		assert.Equal(t, p, quest.Normalize(encoded), "payload %#v", p)
	}
}
