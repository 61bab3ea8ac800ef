package key

import "fmt"

// Combo is a parsed accelerator. Keysym takes precedence over Keycode when
// both are nonzero; a Combo with neither is unbound.
type Combo struct {
	Keysym    Keysym
	Keycode   Keycode
	Modifiers VirtualModifier
}

// IsZero reports whether the combo binds no key.
func (c Combo) IsZero() bool {
	return c.Keysym == KeysymNone && c.Keycode == 0
}

// WithModifiers returns a copy of c with mods added.
func (c Combo) WithModifiers(mods VirtualModifier) Combo {
	c.Modifiers = c.Modifiers.With(mods)
	return c
}

// String returns the accelerator form of the combo.
func (c Combo) String() string {
	switch {
	case c.Keysym != KeysymNone:
		return c.Modifiers.String() + c.Keysym.String()
	case c.Keycode != 0:
		return fmt.Sprintf("%s0x%02x", c.Modifiers, uint32(c.Keycode))
	case !c.Modifiers.IsEmpty():
		return c.Modifiers.String()
	default:
		return "disabled"
	}
}
