package keymap

import (
	"strings"

	"github.com/dshills/wmkeys/internal/input/key"
)

// ISONextGroupCombos returns the combos that switch to the next layout group
// for an XKB "grp:" option such as "alt_shift_toggle". The "grp:" prefix is
// optional. Unknown options yield nil.
func ISONextGroupCombos(option string) []key.Combo {
	option = strings.TrimPrefix(strings.TrimSpace(option), "grp:")

	combo := func(mods key.VirtualModifier) key.Combo {
		return key.Combo{Keysym: key.KeysymISONextGroup, Modifiers: mods}
	}

	switch option {
	case "toggle", "lalt_toggle", "lwin_toggle", "rwin_toggle",
		"lshift_toggle", "rshift_toggle", "lctrl_toggle", "rctrl_toggle",
		"sclk_toggle", "menu_toggle", "caps_toggle":
		return []key.Combo{combo(key.VirtualNone)}
	case "shift_caps_toggle", "shifts_toggle":
		return []key.Combo{combo(key.VirtualShift)}
	case "alt_caps_toggle", "alt_space_toggle":
		return []key.Combo{combo(key.VirtualAlt)}
	case "ctrl_shift_toggle", "lctrl_lshift_toggle", "rctrl_rshift_toggle":
		return []key.Combo{combo(key.VirtualShift), combo(key.VirtualControl)}
	case "ctrl_alt_toggle":
		return []key.Combo{combo(key.VirtualAlt), combo(key.VirtualControl)}
	case "alt_shift_toggle", "lalt_lshift_toggle":
		return []key.Combo{combo(key.VirtualAlt), combo(key.VirtualShift)}
	default:
		return nil
	}
}

// ISONextGroupFromOptions finds the first "grp:" entry in a comma separated
// XKB option string.
func ISONextGroupFromOptions(options string) string {
	for _, opt := range strings.Split(options, ",") {
		opt = strings.TrimSpace(opt)
		if strings.HasPrefix(opt, "grp:") {
			return opt
		}
	}
	return ""
}
