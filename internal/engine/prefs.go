package engine

import (
	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

// Pref binds a handler to an ordered list of accelerators. Name must match
// a registered handler.
type Pref struct {
	Name         string
	Accelerators []string
}

// SpecialPrefs configures the keys that are not ordinary bindings.
type SpecialPrefs struct {
	// OverlayKey is a bare modifier key, such as "Super_L", that fires when
	// pressed and released alone.
	OverlayKey string

	// LocatePointerKey fires like OverlayKey but lets the key through to
	// clients.
	LocatePointerKey     string
	LocatePointerEnabled bool

	// ISONextGroup is an XKB group switch option such as
	// "grp:alt_shift_toggle".
	ISONextGroup string

	// MouseButtonModifier is the modifier for window move and resize
	// buttons, such as "<Super>". Empty disables the grabs.
	MouseButtonModifier string
}

// DefaultSpecialPrefs returns the stock special keys.
func DefaultSpecialPrefs() SpecialPrefs {
	return SpecialPrefs{
		OverlayKey:          "Super_L",
		LocatePointerKey:    "Control_L",
		MouseButtonModifier: "<Alt>",
	}
}

type pendingWork uint8

const (
	pendingReload pendingWork = 1 << iota
	pendingRebuild
)

type externalGrab struct {
	action  handler.Action
	combo   key.Combo
	binding *keymap.Binding
}
