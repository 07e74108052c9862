package script

import (
	"errors"
	"reflect"
	"testing"
)

func validMouseEvent() Event {
	return Event{
		ID:     "attack",
		Type:   EventTypeMouse,
		Action: "left_click",
		Color:  &RGB{R: 10, G: 20, B: 30},
		Delay:  DelayRange{Min: 100, Max: 200},
		Count:  1,
	}
}

func validKeypressEvent() Event {
	return Event{
		ID:     "open-inventory",
		Type:   EventTypeKeypress,
		Action: "i",
		Delay:  DelayRange{Min: 50, Max: 50},
		Count:  1,
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Event)
		wantField string
	}{
		{
			name:   "valid mouse event",
			mutate: func(e *Event) {},
		},
		{
			name:   "valid shift click",
			mutate: func(e *Event) { e.Action = "shift_click" },
		},
		{
			name:      "empty id",
			mutate:    func(e *Event) { e.ID = "" },
			wantField: "id",
		},
		{
			name:      "unknown type",
			mutate:    func(e *Event) { e.Type = "scroll" },
			wantField: "type",
		},
		{
			name:      "unknown mouse action",
			mutate:    func(e *Event) { e.Action = "double_click" },
			wantField: "action",
		},
		{
			name:      "mouse event without color",
			mutate:    func(e *Event) { e.Color = nil },
			wantField: "color",
		},
		{
			name:      "inverted delay range",
			mutate:    func(e *Event) { e.Delay = DelayRange{Min: 300, Max: 200} },
			wantField: "delay_rng",
		},
		{
			name:      "zero count",
			mutate:    func(e *Event) { e.Count = 0 },
			wantField: "count",
		},
		{
			name:      "negative count",
			mutate:    func(e *Event) { e.Count = -2 },
			wantField: "count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validMouseEvent()
			tt.mutate(&ev)

			err := ev.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestEventValidateKeypress(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Event)
		wantField string
	}{
		{
			name:   "valid single key",
			mutate: func(e *Event) {},
		},
		{
			name:   "valid combo",
			mutate: func(e *Event) { e.Action = "ctrl+shift+p" },
		},
		{
			name:      "color on keypress",
			mutate:    func(e *Event) { e.Color = &RGB{R: 1} },
			wantField: "color",
		},
		{
			name:      "skip flag on keypress",
			mutate:    func(e *Event) { e.SkipIfVanished = true },
			wantField: "skip_if_vanished",
		},
		{
			name:      "bad combo",
			mutate:    func(e *Event) { e.Action = "bogus+x" },
			wantField: "action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := validKeypressEvent()
			tt.mutate(&ev)

			err := ev.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestScriptValidateReportsFirstBadEvent(t *testing.T) {
	bad := validMouseEvent()
	bad.ID = "second"
	bad.Count = 0

	s := &Script{Events: []Event{validKeypressEvent(), bad}}
	err := s.Validate()

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if verr.EventID != "second" {
		t.Errorf("EventID = %q, want %q", verr.EventID, "second")
	}
}

func TestParseKeyCombo(t *testing.T) {
	tests := []struct {
		input   string
		want    KeyCombo
		wantErr bool
	}{
		{input: "a", want: KeyCombo{Key: "a"}},
		{input: "5", want: KeyCombo{Key: "5"}},
		{input: "f12", want: KeyCombo{Key: "f12"}},
		{input: "space", want: KeyCombo{Key: "space"}},
		{input: "ctrl+c", want: KeyCombo{Modifiers: []string{"ctrl"}, Key: "c"}},
		{input: "ctrl+shift+p", want: KeyCombo{Modifiers: []string{"ctrl", "shift"}, Key: "p"}},
		{input: "Ctrl+Shift+P", want: KeyCombo{Modifiers: []string{"ctrl", "shift"}, Key: "p"}},
		{input: "", wantErr: true},
		{input: "bogus+x", wantErr: true},
		{input: "ctrl+ctrl+c", wantErr: true},
		{input: "ctrl+", wantErr: true},
		{input: "f13", wantErr: true},
		{input: "f0", wantErr: true},
		{input: "AB", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKeyCombo(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseKeyCombo(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKeyCombo(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseKeyCombo(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestKeyComboString(t *testing.T) {
	combo := KeyCombo{Modifiers: []string{"ctrl", "alt"}, Key: "delete"}
	if got := combo.String(); got != "ctrl+alt+delete" {
		t.Errorf("String() = %q, want %q", got, "ctrl+alt+delete")
	}
	solo := KeyCombo{Key: "q"}
	if got := solo.String(); got != "q" {
		t.Errorf("String() = %q, want %q", got, "q")
	}
}

func TestRGBToRGBA(t *testing.T) {
	c := RGB{R: 12, G: 34, B: 56}
	got := c.RGBA()
	if got.R != 12 || got.G != 34 || got.B != 56 || got.A != 0xff {
		t.Errorf("RGBA() = %+v, want {12 34 56 255}", got)
	}
}
