package key

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Keysym identifies the meaning of a key independent of its position.
type Keysym uint32

// Keycode identifies a physical key position.
type Keycode uint32

// Keysym constants used directly by the engine.
const (
	KeysymNone Keysym = 0

	// KeysymAboveTab is a pseudo-keysym naming the key physically above Tab.
	// It never appears in a keymap and is resolved to a fixed keycode.
	KeysymAboveTab Keysym = 0x2f7259

	KeysymISONextGroup Keysym = 0xfe08
	KeysymShiftL       Keysym = 0xffe1
	KeysymShiftR       Keysym = 0xffe2
	KeysymControlL     Keysym = 0xffe3
	KeysymControlR     Keysym = 0xffe4
	KeysymCapsLock     Keysym = 0xffe5
	KeysymMetaL        Keysym = 0xffe7
	KeysymMetaR        Keysym = 0xffe8
	KeysymAltL         Keysym = 0xffe9
	KeysymAltR         Keysym = 0xffea
	KeysymSuperL       Keysym = 0xffeb
	KeysymSuperR       Keysym = 0xffec
	KeysymHyperL       Keysym = 0xffed
	KeysymHyperR       Keysym = 0xffee
	KeysymNumLock      Keysym = 0xff7f
	KeysymScrollLock   Keysym = 0xff14
)

// KeycodeAboveTab is the keycode KeysymAboveTab resolves to: the evdev
// KEY_GRAVE code plus the X server offset of 8.
const KeycodeAboveTab Keycode = 41 + 8

// keysymNames maps key names to keysyms. Only lowercase letters are listed,
// so "T" and "t" name the same key once lookups fold case.
var keysymNames = map[string]Keysym{
	"space":        0x0020,
	"exclam":       0x0021,
	"quotedbl":     0x0022,
	"numbersign":   0x0023,
	"dollar":       0x0024,
	"percent":      0x0025,
	"ampersand":    0x0026,
	"apostrophe":   0x0027,
	"parenleft":    0x0028,
	"parenright":   0x0029,
	"asterisk":     0x002a,
	"plus":         0x002b,
	"comma":        0x002c,
	"minus":        0x002d,
	"period":       0x002e,
	"slash":        0x002f,
	"colon":        0x003a,
	"semicolon":    0x003b,
	"less":         0x003c,
	"equal":        0x003d,
	"greater":      0x003e,
	"question":     0x003f,
	"at":           0x0040,
	"bracketleft":  0x005b,
	"backslash":    0x005c,
	"bracketright": 0x005d,
	"asciicircum":  0x005e,
	"underscore":   0x005f,
	"grave":        0x0060,
	"braceleft":    0x007b,
	"bar":          0x007c,
	"braceright":   0x007d,
	"asciitilde":   0x007e,

	"BackSpace":   0xff08,
	"Tab":         0xff09,
	"Return":      0xff0d,
	"Pause":       0xff13,
	"Scroll_Lock": 0xff14,
	"Sys_Req":     0xff15,
	"Escape":      0xff1b,
	"Delete":      0xffff,
	"Home":        0xff50,
	"Left":        0xff51,
	"Up":          0xff52,
	"Right":       0xff53,
	"Down":        0xff54,
	"Prior":       0xff55,
	"Page_Up":     0xff55,
	"Next":        0xff56,
	"Page_Down":   0xff56,
	"End":         0xff57,
	"Print":       0xff61,
	"Insert":      0xff63,
	"Menu":        0xff67,
	"Break":       0xff6b,
	"Num_Lock":    0xff7f,

	"KP_Enter":    0xff8d,
	"KP_Home":     0xff95,
	"KP_Left":     0xff96,
	"KP_Up":       0xff97,
	"KP_Right":    0xff98,
	"KP_Down":     0xff99,
	"KP_Multiply": 0xffaa,
	"KP_Add":      0xffab,
	"KP_Subtract": 0xffad,
	"KP_Decimal":  0xffae,
	"KP_Divide":   0xffaf,

	"Shift_L":   0xffe1,
	"Shift_R":   0xffe2,
	"Control_L": 0xffe3,
	"Control_R": 0xffe4,
	"Caps_Lock": 0xffe5,
	"Meta_L":    0xffe7,
	"Meta_R":    0xffe8,
	"Alt_L":     0xffe9,
	"Alt_R":     0xffea,
	"Super_L":   0xffeb,
	"Super_R":   0xffec,
	"Hyper_L":   0xffed,
	"Hyper_R":   0xffee,

	"ISO_Level3_Shift": 0xfe03,
	"ISO_Next_Group":   0xfe08,
	"ISO_Prev_Group":   0xfe0a,
	"ISO_Left_Tab":     0xfe20,

	"XF86MonBrightnessUp":   0x1008ff02,
	"XF86MonBrightnessDown": 0x1008ff03,
	"XF86AudioLowerVolume":  0x1008ff11,
	"XF86AudioMute":         0x1008ff12,
	"XF86AudioRaiseVolume":  0x1008ff13,
	"XF86AudioPlay":         0x1008ff14,
	"XF86AudioStop":         0x1008ff15,
	"XF86AudioPrev":         0x1008ff16,
	"XF86AudioNext":         0x1008ff17,
	"XF86HomePage":          0x1008ff18,
	"XF86Mail":              0x1008ff19,
	"XF86Search":            0x1008ff1b,
	"XF86Calculator":        0x1008ff1d,
	"XF86PowerOff":          0x1008ff2a,
	"XF86Eject":             0x1008ff2c,
	"XF86WWW":               0x1008ff2e,
	"XF86Sleep":             0x1008ff2f,
	"XF86Explorer":          0x1008ff5d,
	"XF86Display":           0x1008ff59,
	"XF86TouchpadToggle":    0x1008ffa9,
}

var (
	keysymByName  map[string]Keysym
	keysymDisplay map[Keysym]string
)

func init() {
	for r := 'a'; r <= 'z'; r++ {
		keysymNames[string(r)] = Keysym(r)
	}
	for r := '0'; r <= '9'; r++ {
		keysymNames[string(r)] = Keysym(r)
	}
	for i := 0; i < 35; i++ {
		keysymNames[fmt.Sprintf("F%d", i+1)] = Keysym(0xffbe + i)
	}
	for i := 0; i < 10; i++ {
		keysymNames[fmt.Sprintf("KP_%d", i)] = Keysym(0xffb0 + i)
	}

	keysymByName = make(map[string]Keysym, len(keysymNames))
	keysymDisplay = make(map[Keysym]string, len(keysymNames))
	for name, sym := range keysymNames {
		keysymByName[strings.ToLower(name)] = sym
		if prev, ok := keysymDisplay[sym]; !ok || name < prev {
			keysymDisplay[sym] = name
		}
	}
}

// KeysymFromName returns the keysym for a key name, or KeysymNone.
//
// Names are matched case-insensitively. A name that is not found is retried
// with an "XF86" prefix, and a single character falls back to its Unicode
// keysym.
func KeysymFromName(name string) Keysym {
	if name == "" {
		return KeysymNone
	}
	lower := strings.ToLower(name)
	if sym, ok := keysymByName[lower]; ok {
		return sym
	}
	if sym, ok := keysymByName["xf86"+lower]; ok {
		return sym
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return KeysymFromRune(r)
	}
	return KeysymNone
}

// KeysymFromRune returns the keysym producing r.
func KeysymFromRune(r rune) Keysym {
	switch {
	case r >= 'A' && r <= 'Z':
		return Keysym(r + ('a' - 'A'))
	case r < 0x100:
		return Keysym(r)
	default:
		return Keysym(0x01000000 | uint32(r))
	}
}

// String returns the keysym name, or its hexadecimal value when unnamed.
func (k Keysym) String() string {
	if k == KeysymNone {
		return "NoSymbol"
	}
	if k == KeysymAboveTab {
		return "Above_Tab"
	}
	if name, ok := keysymDisplay[k]; ok {
		return name
	}
	if k&0xff000000 == 0x01000000 {
		return string(rune(k & 0x00ffffff))
	}
	if k > 0x20 && k < 0x7f {
		return string(rune(k))
	}
	return fmt.Sprintf("0x%x", uint32(k))
}
