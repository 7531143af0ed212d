package main

import (
	"context"
	"fmt"

	"github.com/mwielosz/quest"
	"github.com/mwielosz/quest/gemini"
	"github.com/mwielosz/quest/openai"
	"github.com/mwielosz/quest/relay"
)

const defaultOpenAIModel = "gpt-4o-mini"

// resolveTransport selects and constructs the completion backend. All
// env var values are passed in as parameters — env is only read in
// main().
func resolveTransport(ctx context.Context, backendFlag, modelFlag, apiKeyFlag, openaiEnvKey, geminiEnvKey string) (quest.Transport, error) {
	backend := backendFlag

	// Auto-detect from env vars if no flag. The relay backend is never
	// auto-detected; it must be requested explicitly.
	if backend == "" {
		hasOpenAI := openaiEnvKey != ""
		hasGemini := geminiEnvKey != ""
		switch {
		case hasOpenAI && hasGemini:
			return nil, fmt.Errorf("multiple API keys found (OPENAI_API_KEY, GEMINI_API_KEY): use -backend flag to select")
		case hasOpenAI:
			backend = "openai"
		case hasGemini:
			backend = "gemini"
		default:
			return nil, fmt.Errorf("no API key found: set OPENAI_API_KEY or GEMINI_API_KEY (or use -backend and -api-key flags)")
		}
	}

	// Explicit flag overrides the env var.
	key := apiKeyFlag
	switch backend {
	case "openai":
		if key == "" {
			key = openaiEnvKey
		}
		if key == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set (use -api-key flag or environment variable)")
		}
		model := modelFlag
		if model == "" {
			model = defaultOpenAIModel
		}
		return openai.New(key, model), nil

	case "gemini":
		if key == "" {
			key = geminiEnvKey
		}
		if key == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set (use -api-key flag or environment variable)")
		}
		var opts []gemini.Option
		if modelFlag != "" {
			opts = append(opts, gemini.WithModel(modelFlag))
		}
		client, err := gemini.New(ctx, key, opts...)
		if err != nil {
			return nil, fmt.Errorf("gemini: %w", err)
		}
		return client, nil

	case "relay":
		if key == "" {
			key = openaiEnvKey
		}
		model := modelFlag
		if model == "" {
			model = defaultOpenAIModel
		}
		agent, err := relay.NewGollmAgent("openai", model, key)
		if err != nil {
			return nil, err
		}
		return relay.New(agent), nil

	default:
		return nil, fmt.Errorf("%w: %q (must be \"openai\", \"gemini\" or \"relay\")", quest.ErrUnknownBackend, backend)
	}
}
