package keymap

import "strings"

// Flags describe how a binding is grabbed and dispatched.
type Flags uint16

const (
	// FlagNone indicates no flags.
	FlagNone Flags = 0

	// FlagPerWindow scopes the binding to the focused window; it is grabbed
	// on client windows rather than the root.
	FlagPerWindow Flags = 1 << iota

	// FlagBuiltin marks bindings defined by the window manager itself.
	FlagBuiltin

	// FlagReverses adds a Shift variant of every accelerator that runs the
	// action backwards.
	FlagReverses

	// FlagIsReversed marks handlers that are the backward variant.
	FlagIsReversed

	// FlagNonMaskable bypasses shortcut inhibition.
	FlagNonMaskable

	// FlagIgnoreAutorepeat swallows repeated presses.
	FlagIgnoreAutorepeat

	// FlagNoAutoGrab resolves the binding but never grabs it.
	FlagNoAutoGrab
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagPerWindow, "per-window"},
	{FlagBuiltin, "builtin"},
	{FlagReverses, "reverses"},
	{FlagIsReversed, "is-reversed"},
	{FlagNonMaskable, "non-maskable"},
	{FlagIgnoreAutorepeat, "ignore-autorepeat"},
	{FlagNoAutoGrab, "no-auto-grab"},
}

// Has returns true if f contains flag.
func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// String returns a comma separated list of flag names.
func (f Flags) String() string {
	var parts []string
	for _, n := range flagNames {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, ",")
}

// ParseFlags converts flag names, as used in configuration files, into
// Flags. Unknown names are returned separately.
func ParseFlags(names []string) (Flags, []string) {
	var f Flags
	var unknown []string
	for _, name := range names {
		found := false
		for _, n := range flagNames {
			if strings.EqualFold(n.name, strings.TrimSpace(name)) {
				f |= n.flag
				found = true
				break
			}
		}
		if !found {
			unknown = append(unknown, name)
		}
	}
	return f, unknown
}
