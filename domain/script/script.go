// Package script defines the bot script model: an ordered list of timed,
// color-triggered input events, validated once at load time.
package script

import (
	"fmt"
	"image/color"
)

// EventType discriminates the two event variants.
type EventType string

const (
	EventTypeKeypress EventType = "keypress"
	EventTypeMouse    EventType = "mouse"
)

// MouseAction is the click behavior of a mouse event.
type MouseAction string

const (
	MouseActionLeftClick  MouseAction = "left_click"
	MouseActionRightClick MouseAction = "right_click"
	MouseActionShiftClick MouseAction = "shift_click"
)

// RGB is a target pixel color.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// RGBA converts the color to a color.RGBA with full opacity.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// DelayRange is the inclusive post-action delay window in milliseconds.
type DelayRange struct {
	Min uint32
	Max uint32
}

// Event is one scripted action. Type selects the variant: keypress events
// carry a key combo in Action, mouse events carry a MouseAction in Action
// plus a target color. Dispatch is an exhaustive switch on Type.
type Event struct {
	// ID is the operator-assigned identifier, used in error reporting.
	ID string

	// Type is the event variant.
	Type EventType

	// Action is the key combo (keypress) or mouse action name (mouse).
	Action string

	// Color is the pixel color that triggers a mouse event.
	// Nil for keypress events.
	Color *RGB

	// Delay is the post-action delay window.
	Delay DelayRange

	// Count is the number of repetitions per script pass.
	Count int

	// SkipIfVanished skips a repetition without blocking when the target
	// color is absent. Mouse events only.
	SkipIfVanished bool
}

// Script is an immutable, validated event list. It is owned by the runner
// for the lifetime of a run.
type Script struct {
	Events []Event
}

// ValidationError identifies a schema violation in a specific event.
type ValidationError struct {
	EventID string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("invalid script: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid event %q: %s: %s", e.EventID, e.Field, e.Reason)
}

// Validate checks every event against the model invariants.
func (s *Script) Validate() error {
	for i := range s.Events {
		if err := s.Events[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the event invariants: known type and action, color
// present iff mouse, monotonic delay range, count >= 1.
func (e *Event) Validate() error {
	fail := func(field, reason string) error {
		return &ValidationError{EventID: e.ID, Field: field, Reason: reason}
	}

	if e.ID == "" {
		return fail("id", "must not be empty")
	}

	switch e.Type {
	case EventTypeKeypress:
		if e.Color != nil {
			return fail("color", "not allowed on keypress events")
		}
		if e.SkipIfVanished {
			return fail("skip_if_vanished", "only allowed on mouse events")
		}
		if _, err := ParseKeyCombo(e.Action); err != nil {
			return fail("action", err.Error())
		}
	case EventTypeMouse:
		switch MouseAction(e.Action) {
		case MouseActionLeftClick, MouseActionRightClick, MouseActionShiftClick:
		default:
			return fail("action", fmt.Sprintf("unknown mouse action %q", e.Action))
		}
		if e.Color == nil {
			return fail("color", "required on mouse events")
		}
	default:
		return fail("type", fmt.Sprintf("unknown event type %q", e.Type))
	}

	if e.Delay.Min > e.Delay.Max {
		return fail("delay_rng", fmt.Sprintf("min %d exceeds max %d", e.Delay.Min, e.Delay.Max))
	}
	if e.Count < 1 {
		return fail("count", "must be at least 1")
	}
	return nil
}
