package quest

import "encoding/json"

// Plan is one planning-cycle decision: either a tool invocation request
// or a final answer. ActionInput is kept exactly as received from the
// completion backend; Normalize converts it on demand. Plans are
// transient and never persisted.
type Plan struct {
	Thought     string          `json:"thought"`
	Action      string          `json:"action"`
	ActionInput json.RawMessage `json:"action_input"`
	IsFinal     bool            `json:"is_final"`
	FinalAnswer string          `json:"final_answer"`
}

// HistoryEntry records one completed step of a run. Entries are
// append-only, scoped to a single run, and discarded when it ends.
type HistoryEntry struct {
	Thought     string          `json:"thought"`
	Action      string          `json:"action"`
	ActionInput json.RawMessage `json:"action_input"`
	Observation string          `json:"observation"`
}
