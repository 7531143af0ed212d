// Command quest pursues a natural-language objective by orchestrating
// external tools through a completion backend.
//
// Usage:
//
//	OPENAI_API_KEY=sk-... quest [flags] "objective"
//	GEMINI_API_KEY=gk-... quest [flags] "objective"
//
// Flags:
//
//	-tools string      Glob of tool manifest files (default "tools.yaml")
//	-backend string    Backend: openai, gemini, relay (auto-detected from env vars if omitted)
//	-model string      Model ID (default: backend default)
//	-api-key string    API key (overrides the backend's env var)
//	-max-turns int     Turn budget per run
//	-transcript string Path to save a JSON transcript of the run
//	-timeout duration  Per-tool invocation timeout
//	-plain             Print plain output instead of the TUI
//	-v                 Verbose logging to stderr
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mwielosz/quest"
	"github.com/mwielosz/quest/agent"
	"github.com/mwielosz/quest/invoke"
	"github.com/mwielosz/quest/manifest"
	"github.com/mwielosz/quest/markdown"
	"github.com/mwielosz/quest/planner"
	"github.com/mwielosz/quest/transcript"
	"github.com/mwielosz/quest/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "quest: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		toolsGlob      = flag.String("tools", "tools.yaml", "Glob of tool manifest files")
		backendFlag    = flag.String("backend", "", "Backend: openai, gemini, relay (auto-detected from env vars if omitted)")
		model          = flag.String("model", "", "Model ID (backend-specific)")
		apiKey         = flag.String("api-key", "", "API key (overrides the backend's env var)")
		maxTurns       = flag.Int("max-turns", agent.DefaultMaxTurns, "Turn budget per run")
		transcriptPath = flag.String("transcript", "", "Path to save a JSON transcript of the run")
		timeout        = flag.Duration("timeout", invoke.DefaultTimeout, "Per-tool invocation timeout")
		plain          = flag.Bool("plain", false, "Print plain output instead of the TUI")
		verbose        = flag.Bool("v", false, "Verbose logging to stderr")
	)
	flag.Parse()

	objective := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if objective == "" {
		var err error
		objective, err = promptObjective(os.Stdin, os.Stderr)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := newLogger(*verbose)

	registry, err := manifest.LoadGlob(*toolsGlob)
	if err != nil {
		return err
	}
	logger.Debug("tools loaded", "glob", *toolsGlob, "count", registry.Len())

	transport, err := resolveTransport(ctx, *backendFlag, *model, *apiKey,
		os.Getenv("OPENAI_API_KEY"), os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		return err
	}

	loop := agent.New(
		planner.New(transport, registry),
		invoke.NewRunner(invoke.WithTimeout(*timeout)),
		registry,
	)

	var recorder *transcript.Recorder
	if *transcriptPath != "" {
		recorder = transcript.NewRecorder(objective)
	}

	if *plain {
		err = runPlain(ctx, loop, objective, *maxTurns, logger, recorder)
	} else {
		err = runTUI(ctx, loop, objective, *maxTurns, logger, recorder)
	}
	if err != nil {
		return err
	}

	if recorder != nil {
		if err := transcript.Save(*transcriptPath, recorder.Transcript()); err != nil {
			return fmt.Errorf("save transcript: %w", err)
		}
	}
	return nil
}

func runTUI(ctx context.Context, loop *agent.Loop, objective string, maxTurns int, logger *slog.Logger, recorder *transcript.Recorder) error {
	runFn := func(ctx context.Context, onEvent func(quest.Event)) (string, error) {
		return loop.Run(ctx, objective,
			agent.WithMaxTurns(maxTurns),
			agent.WithEventHandler(func(evt quest.Event) {
				if recorder != nil {
					recorder.Observe(evt)
				}
				onEvent(evt)
			}),
			agent.WithLogger(logger),
		)
	}

	m := tui.New(objective, runFn, quest.DefaultTheme())
	if err := tui.Run(ctx, m); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// runPlain runs the loop without the TUI, echoing progress to stderr
// and the rendered answer to stdout.
func runPlain(ctx context.Context, loop *agent.Loop, objective string, maxTurns int, logger *slog.Logger, recorder *transcript.Recorder) error {
	answer, err := loop.Run(ctx, objective,
		agent.WithMaxTurns(maxTurns),
		agent.WithLogger(logger),
		agent.WithEventHandler(func(evt quest.Event) {
			if recorder != nil {
				recorder.Observe(evt)
			}
			switch e := evt.(type) {
			case quest.EventPlan:
				if e.Plan.Thought != "" {
					fmt.Fprintf(os.Stderr, "[%d] %s\n", e.Turn, e.Plan.Thought)
				}
			case quest.EventToolStart:
				fmt.Fprintf(os.Stderr, "[%d] running %s\n", e.Turn, e.Tool)
			}
		}),
	)
	if err != nil {
		return err
	}
	fmt.Println(markdown.Render(answer, 80, quest.DefaultTheme()))
	return nil
}

// promptObjective asks for an objective on stdin when none was given
// on the command line.
func promptObjective(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Objective: ")
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read objective: %w", err)
		}
		return "", fmt.Errorf("no objective given: quest [flags] \"objective\"")
	}
	objective := strings.TrimSpace(scanner.Text())
	if objective == "" {
		return "", fmt.Errorf("no objective given: quest [flags] \"objective\"")
	}
	return objective, nil
}

func newLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}))
}
