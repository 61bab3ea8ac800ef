package key

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Parse errors
var (
	ErrInvalidAccelerator = errors.New("invalid accelerator")
	ErrUnmatchedBracket   = errors.New("unmatched bracket in accelerator")
	ErrUnknownKey         = errors.New("unknown key name")
	ErrReleaseModifier    = errors.New("release bindings are not supported")
)

// Disabled is the accelerator value for an unbound action.
const Disabled = "disabled"

// Parse parses an accelerator string into a Combo.
//
// Supported forms:
//   - Modifiers and key: "<Control><Alt>t", "<Super>Return", "<Ctl>F4"
//   - Hex keycode: "0x31", "<Alt>0x1c"
//   - Key above Tab: "<Alt>Above_Tab"
//   - Unbound: "" or "disabled"
//
// A string holding only modifiers parses to a Combo with no key.
func Parse(accel string) (Combo, error) {
	accel = strings.TrimSpace(accel)
	if accel == "" || accel == Disabled {
		return Combo{}, nil
	}

	var combo Combo
	rest := accel
	for rest != "" {
		if rest[0] == '<' {
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				return Combo{}, fmt.Errorf("%w: %q", ErrUnmatchedBracket, accel)
			}
			token := rest[1:end]
			rest = rest[end+1:]

			if strings.EqualFold(token, "release") {
				return Combo{}, fmt.Errorf("%w: %q", ErrReleaseModifier, accel)
			}
			mod := VirtualModifierFromName(token)
			if mod == VirtualNone {
				return Combo{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidAccelerator, token)
			}
			combo.Modifiers = combo.Modifiers.With(mod)
			continue
		}

		if strings.ContainsAny(rest, "<>") {
			return Combo{}, fmt.Errorf("%w: modifiers must precede the key in %q", ErrInvalidAccelerator, accel)
		}

		switch {
		case isKeycodeLiteral(rest):
			code, err := strconv.ParseUint(rest[2:], 16, 32)
			if err != nil {
				return Combo{}, fmt.Errorf("%w: bad keycode %q", ErrInvalidAccelerator, rest)
			}
			combo.Keycode = Keycode(code)
		case strings.EqualFold(rest, "Above_Tab"):
			combo.Keysym = KeysymAboveTab
		default:
			sym := KeysymFromName(rest)
			if sym == KeysymNone {
				return Combo{}, fmt.Errorf("%w: %q", ErrUnknownKey, rest)
			}
			combo.Keysym = sym
		}
		rest = ""
	}

	return combo, nil
}

// isKeycodeLiteral reports whether s starts with "0x" and two hex digits.
func isKeycodeLiteral(s string) bool {
	return len(s) >= 4 && s[0] == '0' && s[1] == 'x' && isHex(s[2]) && isHex(s[3])
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// ParseModifier parses an accelerator and returns only its modifiers. It is
// used for settings such as the window-move mouse modifier ("<Super>").
func ParseModifier(accel string) (VirtualModifier, error) {
	combo, err := Parse(accel)
	if err != nil {
		return VirtualNone, err
	}
	return combo.Modifiers, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(accel string) Combo {
	combo, err := Parse(accel)
	if err != nil {
		panic(err)
	}
	return combo
}
