package x11

import (
	"github.com/BurntSushi/xgb/xproto"

	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/layout"
	"github.com/dshills/wmkeys/internal/input/modmap"
)

// groupColumns lists, per group, the core mapping columns holding levels
// 1 to 4: G1L1 G1L2 G2L1 G2L2 G1L3 G1L4 G2L3 G2L4.
var groupColumns = [2][4]int{
	{0, 1, 4, 5},
	{2, 3, 6, 7},
}

// keymapFromMapping converts a GetKeyboardMapping reply into a keymap with
// one or two layouts. A keycode with an empty second group repeats its
// first group there, as the core protocol prescribes.
func keymapFromMapping(lo, hi xproto.Keycode, perCode int, syms []xproto.Keysym) *layout.StaticKeymap {
	groups := make(map[key.Keycode][2][]key.Keysym)
	layouts := 1

	for code := int(lo); code <= int(hi); code++ {
		base := (code - int(lo)) * perCode
		if perCode <= 0 || base+perCode > len(syms) {
			break
		}
		row := syms[base : base+perCode]

		var g [2][]key.Keysym
		for gi, cols := range groupColumns {
			g[gi] = groupLevels(row, cols)
		}
		if len(g[0]) == 0 && len(g[1]) == 0 {
			continue
		}
		if len(g[1]) > 0 {
			layouts = 2
		}
		groups[key.Keycode(code)] = g
	}

	km := layout.NewStaticKeymap(layouts)
	km.Min, km.Max = key.Keycode(lo), key.Keycode(hi)
	for code, g := range groups {
		km.Set(code, 0, g[0]...)
		if layouts == 2 {
			second := g[1]
			if len(second) == 0 {
				second = g[0]
			}
			km.Set(code, 1, second...)
		}
	}
	return km
}

func groupLevels(row []xproto.Keysym, cols [4]int) []key.Keysym {
	var levels []key.Keysym
	for _, c := range cols {
		var sym key.Keysym
		if c < len(row) {
			sym = key.Keysym(row[c])
		}
		levels = append(levels, sym)
	}
	for len(levels) > 0 && levels[len(levels)-1] == key.KeysymNone {
		levels = levels[:len(levels)-1]
	}
	// A lone alphabetic keysym stands for its lower and upper case.
	if len(levels) == 1 {
		if lower, upper := caseForms(levels[0]); lower != upper {
			levels = []key.Keysym{lower, upper}
		}
	}
	return levels
}

// caseForms returns the Latin-1 lower and upper case keysyms of sym.
func caseForms(sym key.Keysym) (key.Keysym, key.Keysym) {
	switch {
	case sym >= 'a' && sym <= 'z':
		return sym, sym - 'a' + 'A'
	case sym >= 'A' && sym <= 'Z':
		return sym - 'A' + 'a', sym
	default:
		return sym, sym
	}
}

// modifierKeysyms names the virtual modifiers recognized in the modifier
// map by the keysyms bound to them.
var modifierKeysyms = map[key.Keysym]string{
	key.KeysymFromName("Num_Lock"):    modmap.NameNumLock,
	key.KeysymFromName("Scroll_Lock"): modmap.NameScrollLock,
	key.KeysymSuperL:                  modmap.NameSuper,
	key.KeysymSuperR:                  modmap.NameSuper,
	key.KeysymHyperL:                  modmap.NameHyper,
	key.KeysymHyperR:                  modmap.NameHyper,
	key.KeysymMetaL:                   modmap.NameMeta,
	key.KeysymMetaR:                   modmap.NameMeta,
}

// firstFreeModifier is Mod1; Shift, Lock and Control are never virtual.
const firstFreeModifier = 3

// sourceFromModmap converts a GetModifierMapping reply into a modifier
// source by looking up every keysym of each modifier keycode in km.
func sourceFromModmap(perMod int, codes []xproto.Keycode, km layout.Keymap) *modmap.StaticSource {
	mapping := make(map[string]key.ModMask)
	for idx := firstFreeModifier; idx < 8; idx++ {
		start := idx * perMod
		if perMod <= 0 || start+perMod > len(codes) {
			break
		}
		for _, code := range codes[start : start+perMod] {
			if code == 0 {
				continue
			}
			for _, sym := range keysymsOf(km, key.Keycode(code)) {
				if name, ok := modifierKeysyms[sym]; ok {
					mapping[name] |= modmap.IndexBit(idx)
				}
			}
		}
	}
	return modmap.NewStaticSource(mapping)
}

func keysymsOf(km layout.Keymap, code key.Keycode) []key.Keysym {
	var out []key.Keysym
	for l := 0; l < km.NumLayouts(); l++ {
		for lvl := 0; lvl < km.NumLevels(code, l); lvl++ {
			out = append(out, km.Syms(code, l, lvl)...)
		}
	}
	return out
}
