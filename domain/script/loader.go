package script

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonScript mirrors the script file wire format.
type jsonScript struct {
	Events []jsonEvent `json:"events"`
}

type jsonEvent struct {
	Type           string     `json:"type"`
	Action         string     `json:"action"`
	ID             string     `json:"id"`
	Color          *[3]uint8  `json:"color,omitempty"`
	DelayRng       *[2]uint32 `json:"delay_rng,omitempty"`
	Count          *int       `json:"count,omitempty"`
	SkipIfVanished *bool      `json:"skip_if_vanished,omitempty"`
}

// Load reads, parses and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("script file %s: %w", path, err)
	}
	return s, nil
}

// Parse parses and validates a JSON script document. Omitted count
// defaults to 1 and omitted skip_if_vanished to false.
func Parse(data []byte) (*Script, error) {
	var js jsonScript
	if err := json.Unmarshal(data, &js); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	s := &Script{Events: make([]Event, len(js.Events))}
	for i := range js.Events {
		ev, err := convertJSONEvent(&js.Events[i])
		if err != nil {
			return nil, err
		}
		s.Events[i] = ev
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func convertJSONEvent(je *jsonEvent) (Event, error) {
	ev := Event{
		ID:     je.ID,
		Type:   EventType(je.Type),
		Action: je.Action,
		Count:  1,
	}
	if je.Count != nil {
		ev.Count = *je.Count
	}
	if je.Color != nil {
		ev.Color = &RGB{R: je.Color[0], G: je.Color[1], B: je.Color[2]}
	}
	if je.DelayRng == nil {
		return Event{}, &ValidationError{EventID: je.ID, Field: "delay_rng", Reason: "required"}
	}
	ev.Delay = DelayRange{Min: je.DelayRng[0], Max: je.DelayRng[1]}
	if je.SkipIfVanished != nil {
		if EventType(je.Type) != EventTypeMouse {
			return Event{}, &ValidationError{EventID: je.ID, Field: "skip_if_vanished", Reason: "only allowed on mouse events"}
		}
		ev.SkipIfVanished = *je.SkipIfVanished
	}
	return ev, nil
}

// Marshal serializes a validated script back to the wire format.
// Defaulted fields (count, and skip_if_vanished on mouse events) are
// materialized explicitly so a round trip preserves the resolved model.
func Marshal(s *Script) ([]byte, error) {
	js := jsonScript{Events: make([]jsonEvent, len(s.Events))}
	for i := range s.Events {
		ev := &s.Events[i]
		count := ev.Count
		je := jsonEvent{
			Type:     string(ev.Type),
			Action:   ev.Action,
			ID:       ev.ID,
			Count:    &count,
			DelayRng: &[2]uint32{ev.Delay.Min, ev.Delay.Max},
		}
		if ev.Type == EventTypeMouse {
			je.Color = &[3]uint8{ev.Color.R, ev.Color.G, ev.Color.B}
			skip := ev.SkipIfVanished
			je.SkipIfVanished = &skip
		}
		js.Events[i] = je
	}
	return json.MarshalIndent(&js, "", "  ")
}
