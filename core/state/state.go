// Package state defines the run state machine.
package state

import "fmt"

// RunState represents the state of a script run.
type RunState int

const (
	// StateIdle is the initial state before the run starts.
	StateIdle RunState = iota
	// StateRunning indicates the scheduler is walking the script.
	StateRunning
	// StateCompleted indicates the run finished without exhausting the
	// runtime budget. Only reachable with an empty script; a non-empty
	// script loops until the budget expires.
	StateCompleted
	// StateTimedOut indicates the runtime budget expired. This is the
	// normal end of a run.
	StateTimedOut
	// StateAborted indicates the run stopped on a fatal capture or
	// dispatch error.
	StateAborted
)

// String returns the string representation of the state.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateCompleted:
		return "Completed"
	case StateTimedOut:
		return "TimedOut"
	case StateAborted:
		return "Aborted"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// validTransitions defines the allowed state transitions.
// Key is the current state, value is the list of valid target states.
var validTransitions = map[RunState][]RunState{
	StateIdle:      {StateRunning},
	StateRunning:   {StateCompleted, StateTimedOut, StateAborted},
	StateCompleted: {},
	StateTimedOut:  {},
	StateAborted:   {},
}

// CanTransitionTo checks if transitioning from the current state to the
// target state is valid.
func (s RunState) CanTransitionTo(target RunState) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ValidTransitions returns the list of valid target states from the
// current state.
func (s RunState) ValidTransitions() []RunState {
	return validTransitions[s]
}

// IsTerminal returns true if the state admits no further transitions.
func (s RunState) IsTerminal() bool {
	return s == StateCompleted || s == StateTimedOut || s == StateAborted
}

// IsActive returns true while the scheduler is executing the script.
func (s RunState) IsActive() bool {
	return s == StateRunning
}

// Succeeded returns true for the terminal states that map to a zero exit
// code: a run that drained its budget or an empty script that completed.
func (s RunState) Succeeded() bool {
	return s == StateCompleted || s == StateTimedOut
}

// TransitionError represents an invalid state transition attempt.
type TransitionError struct {
	From   RunState
	To     RunState
	Reason string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid state transition from %s to %s: %s", e.From, e.To, e.Reason)
	}
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(from, to RunState, reason string) *TransitionError {
	return &TransitionError{From: from, To: to, Reason: reason}
}
