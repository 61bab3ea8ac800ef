package key

import "strings"

// ModMask is a physical modifier mask as reported in event state.
type ModMask uint32

const (
	// ModMaskNone indicates no modifiers.
	ModMaskNone ModMask = 0

	ModMaskShift   ModMask = 1 << 0
	ModMaskLock    ModMask = 1 << 1
	ModMaskControl ModMask = 1 << 2
	ModMask1       ModMask = 1 << 3
	ModMask2       ModMask = 1 << 4
	ModMask3       ModMask = 1 << 5
	ModMask4       ModMask = 1 << 6
	ModMask5       ModMask = 1 << 7

	// ModMaskAny requests a grab that matches every modifier combination.
	ModMaskAny ModMask = 1 << 15

	// ModMaskCore covers the eight core modifier bits.
	ModMaskCore ModMask = 0xff
)

var modMaskNames = []struct {
	mask ModMask
	name string
}{
	{ModMaskShift, "Shift"},
	{ModMaskLock, "Lock"},
	{ModMaskControl, "Control"},
	{ModMask1, "Mod1"},
	{ModMask2, "Mod2"},
	{ModMask3, "Mod3"},
	{ModMask4, "Mod4"},
	{ModMask5, "Mod5"},
	{ModMaskAny, "Any"},
}

// Has returns true if m contains every bit of mask.
func (m ModMask) Has(mask ModMask) bool {
	return m&mask == mask
}

// With returns m with mask added.
func (m ModMask) With(mask ModMask) ModMask {
	return m | mask
}

// Without returns m with mask removed.
func (m ModMask) Without(mask ModMask) ModMask {
	return m &^ mask
}

// String returns a representation like "Control|Mod1".
func (m ModMask) String() string {
	if m == ModMaskNone {
		return "0"
	}
	var parts []string
	for _, n := range modMaskNames {
		if m&n.mask != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// VirtualModifier is a set of abstract modifiers. Shift, Control and Alt
// have fixed physical bits; the rest depend on the modifier mapping.
type VirtualModifier uint16

const (
	VirtualNone VirtualModifier = 0

	VirtualShift VirtualModifier = 1 << iota
	VirtualControl
	VirtualAlt
	VirtualMeta
	VirtualSuper
	VirtualHyper
	VirtualMod2
	VirtualMod3
	VirtualMod4
	VirtualMod5
)

var virtualNames = []struct {
	mod  VirtualModifier
	name string
}{
	{VirtualShift, "Shift"},
	{VirtualControl, "Control"},
	{VirtualAlt, "Alt"},
	{VirtualMeta, "Meta"},
	{VirtualSuper, "Super"},
	{VirtualHyper, "Hyper"},
	{VirtualMod2, "Mod2"},
	{VirtualMod3, "Mod3"},
	{VirtualMod4, "Mod4"},
	{VirtualMod5, "Mod5"},
}

// Has returns true if v contains mod.
func (v VirtualModifier) Has(mod VirtualModifier) bool {
	return v&mod != 0
}

// With returns v with mod added.
func (v VirtualModifier) With(mod VirtualModifier) VirtualModifier {
	return v | mod
}

// Without returns v with mod removed.
func (v VirtualModifier) Without(mod VirtualModifier) VirtualModifier {
	return v &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (v VirtualModifier) IsEmpty() bool {
	return v == VirtualNone
}

// String returns the accelerator form, e.g. "<Control><Alt>".
func (v VirtualModifier) String() string {
	var sb strings.Builder
	for _, n := range virtualNames {
		if v.Has(n.mod) {
			sb.WriteByte('<')
			sb.WriteString(n.name)
			sb.WriteByte('>')
		}
	}
	return sb.String()
}

// virtualFromName maps lower-cased modifier tokens to modifiers. Mod1 is an
// alias for Alt; Primary and the abbreviations match Control and Shift.
var virtualFromName = map[string]VirtualModifier{
	"shift":   VirtualShift,
	"shft":    VirtualShift,
	"control": VirtualControl,
	"ctrl":    VirtualControl,
	"ctl":     VirtualControl,
	"primary": VirtualControl,
	"alt":     VirtualAlt,
	"mod1":    VirtualAlt,
	"meta":    VirtualMeta,
	"super":   VirtualSuper,
	"hyper":   VirtualHyper,
	"mod2":    VirtualMod2,
	"mod3":    VirtualMod3,
	"mod4":    VirtualMod4,
	"mod5":    VirtualMod5,
}

// VirtualModifierFromName returns the modifier for a token such as "Ctl",
// or VirtualNone when it is unknown.
func VirtualModifierFromName(name string) VirtualModifier {
	return virtualFromName[strings.ToLower(name)]
}
