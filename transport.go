package quest

import "context"

// Transport sends one planning exchange to a completion backend and
// returns the generated reply text. Two families of implementations
// exist: direct request/response clients (openai, gemini) and the
// conversational relay (relay). The planner does not care which.
type Transport interface {
	Send(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

// Planner produces the next Plan for an objective given the run history
// and the most recent observation. Backend failures surface as errors;
// unparsable replies do not — they degrade into a final-answer Plan.
type Planner interface {
	Plan(ctx context.Context, objective string, history []HistoryEntry, observation string) (Plan, error)
}

// ToolRunner executes a tool against a normalized payload. All failure
// modes — missing required arguments, non-zero exit, timeout — are
// reported in the returned observation string, never as an error, so
// the loop can show them to the planner on the next cycle.
type ToolRunner interface {
	Invoke(ctx context.Context, tool Tool, payload Payload) string
}
