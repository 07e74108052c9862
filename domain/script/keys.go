package script

import (
	"fmt"
	"strings"
)

// KeyCombo is a parsed keypress action: zero or more modifiers and a
// final key, e.g. "ctrl+shift+p".
type KeyCombo struct {
	Modifiers []string
	Key       string
}

// String reassembles the canonical combo form.
func (k KeyCombo) String() string {
	if len(k.Modifiers) == 0 {
		return k.Key
	}
	return strings.Join(append(append([]string{}, k.Modifiers...), k.Key), "+")
}

var modifierKeys = map[string]bool{
	"ctrl":  true,
	"alt":   true,
	"shift": true,
	"cmd":   true,
}

// namedKeys are the accepted non-modifier key names beyond single letters,
// digits and function keys. Names follow the input driver vocabulary.
var namedKeys = map[string]bool{
	"space":     true,
	"enter":     true,
	"esc":       true,
	"tab":       true,
	"backspace": true,
	"delete":    true,
	"insert":    true,
	"up":        true,
	"down":      true,
	"left":      true,
	"right":     true,
	"home":      true,
	"end":       true,
	"pageup":    true,
	"pagedown":  true,
}

// ParseKeyCombo parses and validates a key combo string. All parts but the
// last must be distinct modifiers; the last part must be a known key.
func ParseKeyCombo(s string) (KeyCombo, error) {
	if s == "" {
		return KeyCombo{}, fmt.Errorf("empty key combo")
	}

	parts := strings.Split(strings.ToLower(s), "+")
	combo := KeyCombo{Key: parts[len(parts)-1]}

	seen := make(map[string]bool, len(parts))
	for _, mod := range parts[:len(parts)-1] {
		if !modifierKeys[mod] {
			return KeyCombo{}, fmt.Errorf("unknown modifier %q", mod)
		}
		if seen[mod] {
			return KeyCombo{}, fmt.Errorf("duplicate modifier %q", mod)
		}
		seen[mod] = true
		combo.Modifiers = append(combo.Modifiers, mod)
	}

	if !validKey(combo.Key) {
		return KeyCombo{}, fmt.Errorf("unknown key %q", combo.Key)
	}
	return combo, nil
}

func validKey(k string) bool {
	if len(k) == 1 {
		c := k[0]
		return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
	}
	if namedKeys[k] {
		return true
	}
	// f1 through f12
	if len(k) >= 2 && len(k) <= 3 && k[0] == 'f' {
		n := 0
		for i := 1; i < len(k); i++ {
			if k[i] < '0' || k[i] > '9' {
				return false
			}
			n = n*10 + int(k[i]-'0')
		}
		return n >= 1 && n <= 12
	}
	return false
}
