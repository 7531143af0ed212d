package quest

// Event is a sealed interface representing loop progress events.
// The unexported marker method prevents external implementations.
// Events are purely informational; failures travel through plan
// observations or the Run error return, not through events.
type Event interface {
	event()
}

// EventPlan is emitted after each successful planning call.
type EventPlan struct {
	Turn int
	Plan Plan
}

func (EventPlan) event() {}

// EventToolStart is emitted just before a tool process is invoked.
type EventToolStart struct {
	Turn int
	Tool string
}

func (EventToolStart) event() {}

// EventObservation carries the result of one tool invocation, including
// the unknown-tool and missing-argument messages.
type EventObservation struct {
	Turn int
	Tool string
	Text string
}

func (EventObservation) event() {}

// EventFinal carries the run's final answer.
type EventFinal struct {
	Answer string
}

func (EventFinal) event() {}

// Interface compliance checks.
var (
	_ Event = EventPlan{}
	_ Event = EventToolStart{}
	_ Event = EventObservation{}
	_ Event = EventFinal{}
)
