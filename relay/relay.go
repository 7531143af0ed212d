// Package relay implements quest.Transport over a conversational agent
// framework. The planning exchange is wrapped as chat messages and the
// reply content is extracted from whatever shape the framework returns:
// a plain string, a structured message, or a list of messages.
package relay

import (
	"context"
	"fmt"

	"github.com/mwielosz/quest"
)

// Message is one role-tagged chat message handed to the agent.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Agent is the conversational framework boundary. Implementations may
// return a plain string, a map with a "content" field, or a list of
// such maps; Relay extracts the text either way.
type Agent interface {
	GenerateReply(ctx context.Context, messages []Message) (any, error)
}

// Interface compliance check.
var _ quest.Transport = (*Relay)(nil)

// Relay adapts an Agent to quest.Transport.
type Relay struct {
	agent Agent
}

// New creates a Relay over the given agent.
func New(agent Agent) *Relay {
	return &Relay{agent: agent}
}

// Send forwards the exchange as a system message plus a user message
// and extracts the reply text.
func (r *Relay) Send(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userMessage},
	}
	reply, err := r.agent.GenerateReply(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("relay: %w", err)
	}
	return ExtractContent(reply), nil
}

// ExtractContent pulls the text out of an agent reply. Plain strings
// pass through; structured messages yield their "content" field; lists
// yield the first element's content. Anything else is stringified.
// Exported for testing.
func ExtractContent(reply any) string {
	switch v := reply.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		if content, ok := v["content"]; ok {
			return ExtractContent(content)
		}
	case []any:
		if len(v) == 0 {
			return ""
		}
		return ExtractContent(v[0])
	}
	return fmt.Sprint(reply)
}
