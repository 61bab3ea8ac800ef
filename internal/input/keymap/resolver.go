package keymap

import (
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/layout"
	"github.com/dshills/wmkeys/internal/input/modmap"
)

// Resolver turns combos into physical keys using the active layouts and the
// current modifier mapping.
type Resolver struct {
	layouts *layout.Table
	mods    *modmap.Translator
}

// NewResolver creates a resolver over the given layout table and translator.
func NewResolver(layouts *layout.Table, mods *modmap.Translator) *Resolver {
	return &Resolver{layouts: layouts, mods: mods}
}

// Resolve returns the physical keys for combo. A keysym takes precedence
// over an explicit keycode; a combo with neither resolves to no keycodes.
func (r *Resolver) Resolve(combo key.Combo) ResolvedCombo {
	rc := ResolvedCombo{Mask: r.mods.Devirtualize(combo.Modifiers)}
	switch {
	case combo.Keysym != key.KeysymNone:
		rc.Keycodes = r.layouts.KeycodesForKeysym(combo.Keysym)
	case combo.Keycode != 0:
		rc.Keycodes = []key.Keycode{combo.Keycode}
	}
	return rc
}

// ResolveAll resolves each combo, in order.
func (r *Resolver) ResolveAll(combos []key.Combo) []ResolvedCombo {
	out := make([]ResolvedCombo, len(combos))
	for i, c := range combos {
		out[i] = r.Resolve(c)
	}
	return out
}
