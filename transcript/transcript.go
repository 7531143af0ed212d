// Package transcript records a completed run as a JSON artifact: the
// objective, every plan/act/observe step, and the final answer. Runs
// keep no state between invocations, so the transcript is the only
// durable trace of what happened.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mwielosz/quest"
)

// Transcript is the v1 wire format for a recorded run.
type Transcript struct {
	Version    int                  `json:"version"`
	ID         string               `json:"id"`
	Objective  string               `json:"objective"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	Steps      []quest.HistoryEntry `json:"steps"`
	Answer     string               `json:"answer"`
}

// Recorder assembles a Transcript from loop events. It is not safe for
// concurrent use; feed it from a single event handler.
type Recorder struct {
	t       Transcript
	pending *quest.HistoryEntry
}

// NewRecorder starts recording a run for the given objective.
func NewRecorder(objective string) *Recorder {
	return &Recorder{t: Transcript{
		Version:   1,
		ID:        uuid.NewString(),
		Objective: objective,
		StartedAt: time.Now().UTC(),
	}}
}

// Observe folds one loop event into the transcript. A plan opens a
// step; the matching observation completes it. Final plans carry no
// observation, so EventFinal closes the run directly.
func (r *Recorder) Observe(evt quest.Event) {
	switch e := evt.(type) {
	case quest.EventPlan:
		r.pending = &quest.HistoryEntry{
			Thought:     e.Plan.Thought,
			Action:      e.Plan.Action,
			ActionInput: e.Plan.ActionInput,
		}
	case quest.EventObservation:
		if r.pending == nil {
			return
		}
		r.pending.Observation = e.Text
		r.t.Steps = append(r.t.Steps, *r.pending)
		r.pending = nil
	case quest.EventFinal:
		r.t.Answer = e.Answer
	}
}

// Transcript returns the recorded run with the finish time set.
func (r *Recorder) Transcript() Transcript {
	t := r.t
	t.FinishedAt = time.Now().UTC()
	return t
}

// Save writes the transcript to path atomically.
func Save(path string, t Transcript) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create directories: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a transcript from a JSON file.
func Load(path string) (Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Transcript{}, fmt.Errorf("read file: %w", err)
	}
	var t Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return Transcript{}, fmt.Errorf("unmarshal: %w", err)
	}
	return t, nil
}
