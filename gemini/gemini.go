// Package gemini implements quest.Transport for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK, translating the planner's
// system+user exchange into a single non-streaming GenerateContent call.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/mwielosz/quest"
)

const defaultModel = "gemini-2.5-flash"

// Interface compliance check.
var _ quest.Transport = (*Client)(nil)

// Client implements quest.Transport for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.5-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Send issues one GenerateContent call and returns the concatenated
// text of the first candidate.
func (c *Client) Send(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, BuildContents(userMessage), BuildConfig(systemPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	text := ExtractText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: response contains no text")
	}
	return text, nil
}

// BuildContents wraps the user message as a single user turn.
// Exported for testing.
func BuildContents(userMessage string) []*genai.Content {
	return []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: userMessage}},
	}}
}

// BuildConfig carries the system prompt as a system instruction.
// Exported for testing.
func BuildConfig(systemPrompt string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}
	return config
}

// ExtractText concatenates the text parts of the first candidate,
// skipping thought parts. Exported for testing.
func ExtractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
