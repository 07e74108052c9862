// Package event defines the events published during a script run.
// Events are emitted by the runner and consumed by logging subscribers,
// keeping diagnostics out of the execution loop.
package event

// Event is the base interface for all events.
type Event interface {
	// EventName returns the name of the event for logging/debugging
	EventName() string
}

// RunEvent is an event that originates from a specific run.
type RunEvent interface {
	Event
	// RunID returns the source run ID
	RunID() string
}

// baseRunEvent provides common implementation for run events.
type baseRunEvent struct {
	runID string
}

func (e *baseRunEvent) RunID() string {
	return e.runID
}

// StopReason classifies why a run ended.
type StopReason string

const (
	// StopReasonTimedOut means the runtime budget expired.
	StopReasonTimedOut StopReason = "timed_out"
	// StopReasonCompleted means the script finished on its own.
	StopReasonCompleted StopReason = "completed"
	// StopReasonError means a fatal capture or dispatch failure.
	StopReasonError StopReason = "error"
)
