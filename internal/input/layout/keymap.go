package layout

import "github.com/dshills/wmkeys/internal/input/key"

// Keymap is a read-only view of a keyboard description.
type Keymap interface {
	// NumLayouts returns the number of layouts (groups) in the keymap.
	NumLayouts() int

	// KeycodeRange returns the smallest and largest keycode in the keymap.
	KeycodeRange() (min, max key.Keycode)

	// NumLevels returns the number of shift levels code has in layout.
	NumLevels(code key.Keycode, layout int) int

	// Syms returns the keysyms code produces in layout at level.
	Syms(code key.Keycode, layout, level int) []key.Keysym
}

// StaticKeymap is an in-memory Keymap. Keys maps a keycode to its symbols
// indexed by layout then level; a zero keysym marks an empty level.
type StaticKeymap struct {
	Min, Max key.Keycode
	Layouts  int
	Keys     map[key.Keycode][][]key.Keysym
}

// NewStaticKeymap creates an empty keymap with the given number of layouts.
func NewStaticKeymap(layouts int) *StaticKeymap {
	if layouts < 1 {
		layouts = 1
	}
	return &StaticKeymap{
		Min:     8,
		Max:     255,
		Layouts: layouts,
		Keys:    make(map[key.Keycode][][]key.Keysym),
	}
}

// Set assigns the per-level symbols of code in layout. It returns the keymap
// to allow chaining.
func (m *StaticKeymap) Set(code key.Keycode, layout int, levels ...key.Keysym) *StaticKeymap {
	if layout < 0 || layout >= m.Layouts {
		return m
	}
	groups := m.Keys[code]
	if len(groups) < m.Layouts {
		grown := make([][]key.Keysym, m.Layouts)
		copy(grown, groups)
		groups = grown
	}
	groups[layout] = append([]key.Keysym(nil), levels...)
	m.Keys[code] = groups
	return m
}

// NumLayouts implements Keymap.
func (m *StaticKeymap) NumLayouts() int {
	return m.Layouts
}

// KeycodeRange implements Keymap.
func (m *StaticKeymap) KeycodeRange() (key.Keycode, key.Keycode) {
	return m.Min, m.Max
}

// NumLevels implements Keymap.
func (m *StaticKeymap) NumLevels(code key.Keycode, layout int) int {
	groups := m.Keys[code]
	if layout < 0 || layout >= len(groups) {
		return 0
	}
	return len(groups[layout])
}

// Syms implements Keymap.
func (m *StaticKeymap) Syms(code key.Keycode, layout, level int) []key.Keysym {
	groups := m.Keys[code]
	if layout < 0 || layout >= len(groups) {
		return nil
	}
	levels := groups[layout]
	if level < 0 || level >= len(levels) || levels[level] == key.KeysymNone {
		return nil
	}
	return levels[level : level+1]
}

// usKeys lists the US layout on evdev keycodes (kernel code + 8), as
// unshifted and shifted symbols.
var usKeys = map[key.Keycode][2]key.Keysym{
	9:  {0xff1b, 0},
	10: {'1', '!'},
	11: {'2', '@'},
	12: {'3', '#'},
	13: {'4', '$'},
	14: {'5', '%'},
	15: {'6', '^'},
	16: {'7', '&'},
	17: {'8', '*'},
	18: {'9', '('},
	19: {'0', ')'},
	20: {'-', '_'},
	21: {'=', '+'},
	22: {0xff08, 0},
	23: {0xff09, 0xfe20},
	24: {'q', 'Q'},
	25: {'w', 'W'},
	26: {'e', 'E'},
	27: {'r', 'R'},
	28: {'t', 'T'},
	29: {'y', 'Y'},
	30: {'u', 'U'},
	31: {'i', 'I'},
	32: {'o', 'O'},
	33: {'p', 'P'},
	34: {'[', '{'},
	35: {']', '}'},
	36: {0xff0d, 0},
	37: {key.KeysymControlL, 0},
	38: {'a', 'A'},
	39: {'s', 'S'},
	40: {'d', 'D'},
	41: {'f', 'F'},
	42: {'g', 'G'},
	43: {'h', 'H'},
	44: {'j', 'J'},
	45: {'k', 'K'},
	46: {'l', 'L'},
	47: {';', ':'},
	48: {'\'', '"'},
	49: {'`', '~'},
	50: {key.KeysymShiftL, 0},
	51: {'\\', '|'},
	52: {'z', 'Z'},
	53: {'x', 'X'},
	54: {'c', 'C'},
	55: {'v', 'V'},
	56: {'b', 'B'},
	57: {'n', 'N'},
	58: {'m', 'M'},
	59: {',', '<'},
	60: {'.', '>'},
	61: {'/', '?'},
	62: {key.KeysymShiftR, 0},
	64: {key.KeysymAltL, key.KeysymMetaL},
	65: {' ', 0},
	66: {key.KeysymCapsLock, 0},
	67: {0xffbe, 0},
	68: {0xffbf, 0},
	69: {0xffc0, 0},
	70: {0xffc1, 0},
	71: {0xffc2, 0},
	72: {0xffc3, 0},
	73: {0xffc4, 0},
	74: {0xffc5, 0},
	75: {0xffc6, 0},
	76: {0xffc7, 0},
	77: {key.KeysymNumLock, 0},
	78: {key.KeysymScrollLock, 0},
	95: {0xffc8, 0},
	96: {0xffc9, 0},
	105: {key.KeysymControlR, 0},
	107: {0xff61, 0},
	108: {key.KeysymAltR, key.KeysymMetaR},
	110: {0xff50, 0},
	111: {0xff52, 0},
	112: {0xff55, 0},
	113: {0xff51, 0},
	114: {0xff53, 0},
	115: {0xff57, 0},
	116: {0xff54, 0},
	117: {0xff56, 0},
	118: {0xff63, 0},
	119: {0xffff, 0},
	127: {0xff13, 0},
	133: {key.KeysymSuperL, 0},
	134: {key.KeysymSuperR, 0},
	135: {0xff67, 0},
}

// USKeymap returns a single-layout US keymap on evdev keycodes.
func USKeymap() *StaticKeymap {
	m := NewStaticKeymap(1)
	for code, syms := range usKeys {
		if syms[1] == key.KeysymNone {
			m.Set(code, 0, syms[0])
		} else {
			m.Set(code, 0, syms[0], syms[1])
		}
	}
	return m
}
