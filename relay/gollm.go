package relay

import (
	"context"
	"fmt"
	"strings"

	"github.com/teilomillet/gollm"
)

// Interface compliance check.
var _ Agent = (*GollmAgent)(nil)

// GollmAgent is the default Agent, backed by a gollm LLM. It answers
// each exchange with a single generated string.
type GollmAgent struct {
	llm gollm.LLM
}

// NewGollmAgent creates a GollmAgent for the given provider and model.
// An empty apiKey lets gollm read it from the provider's environment
// variable.
func NewGollmAgent(provider, model, apiKey string) (*GollmAgent, error) {
	opts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxRetries(0),
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if apiKey != "" {
		opts = append(opts, gollm.SetAPIKey(apiKey))
	}

	llm, err := gollm.NewLLM(opts...)
	if err != nil {
		return nil, fmt.Errorf("relay: creating %s agent: %w", provider, err)
	}
	return &GollmAgent{llm: llm}, nil
}

// NewGollmAgentFromLLM wraps an existing gollm LLM.
func NewGollmAgentFromLLM(llm gollm.LLM) *GollmAgent {
	return &GollmAgent{llm: llm}
}

// GenerateReply joins the user messages into one prompt, carries the
// system message as a system prompt, and returns the generated text.
func (a *GollmAgent) GenerateReply(ctx context.Context, messages []Message) (any, error) {
	var system string
	var user []string
	for _, m := range messages {
		switch m.Role {
		case "system":
			system = m.Content
		default:
			user = append(user, m.Content)
		}
	}

	var promptOpts []gollm.PromptOption
	if system != "" {
		promptOpts = append(promptOpts, gollm.WithSystemPrompt(strings.TrimSpace(system), gollm.CacheTypeEphemeral))
	}

	prompt := gollm.NewPrompt(strings.Join(user, "\n"), promptOpts...)
	text, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return text, nil
}
