package event

import (
	"image"
	"time"

	"chromabot/core/state"
)

// RunStarted is published when the runner enters the Running state.
type RunStarted struct {
	baseRunEvent
	EventCount int
	Runtime    time.Duration
}

func NewRunStarted(runID string, eventCount int, runtime time.Duration) *RunStarted {
	return &RunStarted{
		baseRunEvent: baseRunEvent{runID: runID},
		EventCount:   eventCount,
		Runtime:      runtime,
	}
}

func (e *RunStarted) EventName() string {
	return "RunStarted"
}

// RunStopped is published when the run reaches a terminal state.
type RunStopped struct {
	baseRunEvent
	Reason StopReason
	Error  error // nil unless Reason is StopReasonError
}

func NewRunStopped(runID string, reason StopReason, err error) *RunStopped {
	return &RunStopped{
		baseRunEvent: baseRunEvent{runID: runID},
		Reason:       reason,
		Error:        err,
	}
}

func (e *RunStopped) EventName() string {
	return "RunStopped"
}

// RunStateChanged is published on every state machine transition.
type RunStateChanged struct {
	baseRunEvent
	Old state.RunState
	New state.RunState
}

func NewRunStateChanged(runID string, oldState, newState state.RunState) *RunStateChanged {
	return &RunStateChanged{
		baseRunEvent: baseRunEvent{runID: runID},
		Old:          oldState,
		New:          newState,
	}
}

func (e *RunStateChanged) EventName() string {
	return "RunStateChanged"
}

// ActionDispatched is published after each dispatched event repetition.
// Target is the matched pixel for mouse events and nil for keypresses.
type ActionDispatched struct {
	baseRunEvent
	EventID    string
	Repetition int
	Target     *image.Point
}

func NewActionDispatched(runID, eventID string, repetition int, target *image.Point) *ActionDispatched {
	return &ActionDispatched{
		baseRunEvent: baseRunEvent{runID: runID},
		EventID:      eventID,
		Repetition:   repetition,
		Target:       target,
	}
}

func (e *ActionDispatched) EventName() string {
	return "ActionDispatched"
}

// TargetMissed is published when a mouse event's color is absent from the
// captured frame. Skipped reports whether the repetition was skipped
// (skip_if_vanished) or the runner entered the blocking poll.
type TargetMissed struct {
	baseRunEvent
	EventID string
	Color   [3]uint8
	Skipped bool
}

func NewTargetMissed(runID, eventID string, color [3]uint8, skipped bool) *TargetMissed {
	return &TargetMissed{
		baseRunEvent: baseRunEvent{runID: runID},
		EventID:      eventID,
		Color:        color,
		Skipped:      skipped,
	}
}

func (e *TargetMissed) EventName() string {
	return "TargetMissed"
}
