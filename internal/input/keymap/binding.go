package keymap

import (
	"fmt"
	"slices"

	"github.com/dshills/wmkeys/internal/input/key"
)

// ResolvedCombo is a combo translated to physical keys.
type ResolvedCombo struct {
	// Keycodes are duplicate-free; the first one is the primary keycode.
	Keycodes []key.Keycode

	// Mask is the physical modifier mask.
	Mask key.ModMask
}

// IsEmpty reports whether the combo resolved to no key. Empty combos are
// never grabbed or indexed.
func (rc ResolvedCombo) IsEmpty() bool {
	return len(rc.Keycodes) == 0
}

// Equal reports whether two resolved combos have the same keycodes, in the
// same order, and the same mask.
func (rc ResolvedCombo) Equal(other ResolvedCombo) bool {
	return rc.Mask == other.Mask && slices.Equal(rc.Keycodes, other.Keycodes)
}

// Matches reports whether code and mask equal any keycode of rc and its mask.
func (rc ResolvedCombo) Matches(code key.Keycode, mask key.ModMask) bool {
	return rc.Mask == mask && slices.Contains(rc.Keycodes, code)
}

// String returns a debug representation like "[23] Control|Mod1".
func (rc ResolvedCombo) String() string {
	return fmt.Sprintf("%v %s", rc.Keycodes, rc.Mask)
}

// Binding ties one accelerator to a handler.
type Binding struct {
	// Name is the preference or handler name the binding came from.
	Name string

	// Combo is the parsed accelerator.
	Combo key.Combo

	// Resolved is recomputed on every keymap or modifier reload.
	Resolved ResolvedCombo

	// Flags are copied from the handler when the binding is built.
	Flags Flags

	// Handler names the handler to invoke; it is looked up at dispatch time.
	Handler string
}

// NewBinding creates a binding for combo handled by handler.
func NewBinding(name string, combo key.Combo, handler string, flags Flags) *Binding {
	return &Binding{
		Name:    name,
		Combo:   combo,
		Handler: handler,
		Flags:   flags,
	}
}

// IsReversed reports whether this is the Shift variant of a reversible
// binding.
func (b *Binding) IsReversed() bool {
	return b.Flags.Has(FlagReverses) && b.Combo.Modifiers.Has(key.VirtualShift)
}

// IsPerWindow reports whether the binding is scoped to a window.
func (b *Binding) IsPerWindow() bool {
	return b.Flags.Has(FlagPerWindow)
}

// Grabbable reports whether the binding should hold a passive grab.
func (b *Binding) Grabbable() bool {
	return !b.Flags.Has(FlagNoAutoGrab) && !b.Resolved.IsEmpty()
}

// String returns the binding name and accelerator.
func (b *Binding) String() string {
	return fmt.Sprintf("%s(%s)", b.Name, b.Combo)
}
