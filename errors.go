package quest

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrConfig indicates a malformed or incomplete tool configuration.
	// It is fatal at startup, before any run begins.
	ErrConfig = errors.New("invalid tool configuration")

	// ErrMalformedPlan indicates the completion backend's reply could
	// not be parsed as a structured plan. The planner recovers from it
	// by synthesizing a final-answer plan; it never escapes a run.
	ErrMalformedPlan = errors.New("malformed plan response")

	// ErrUnknownBackend indicates an unrecognized completion backend name.
	ErrUnknownBackend = errors.New("unknown completion backend")
)
