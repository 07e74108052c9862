package event

import (
	"image"
	"testing"
	"time"

	"chromabot/core/state"
)

func TestRunEventsCarryRunID(t *testing.T) {
	events := []RunEvent{
		NewRunStarted("run-7", 4, time.Hour),
		NewRunStopped("run-7", StopReasonTimedOut, nil),
		NewRunStateChanged("run-7", state.StateIdle, state.StateRunning),
		NewActionDispatched("run-7", "attack", 2, &image.Point{X: 3, Y: 4}),
		NewTargetMissed("run-7", "attack", [3]uint8{200, 10, 10}, true),
	}

	for _, e := range events {
		if e.RunID() != "run-7" {
			t.Errorf("%s.RunID() = %q, want run-7", e.EventName(), e.RunID())
		}
		if e.EventName() == "" {
			t.Error("empty EventName()")
		}
	}
}

func TestEventNamesDistinct(t *testing.T) {
	names := map[string]bool{}
	for _, e := range []Event{
		NewRunStarted("r", 0, 0),
		NewRunStopped("r", StopReasonCompleted, nil),
		NewRunStateChanged("r", state.StateIdle, state.StateRunning),
		NewActionDispatched("r", "e", 1, nil),
		NewTargetMissed("r", "e", [3]uint8{}, false),
	} {
		if names[e.EventName()] {
			t.Errorf("duplicate event name %q", e.EventName())
		}
		names[e.EventName()] = true
	}
}
