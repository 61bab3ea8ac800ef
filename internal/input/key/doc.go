// Package key provides the symbolic and physical key types used by the
// keybinding engine.
//
// This package defines the fundamental types for describing a shortcut and
// the raw events it is matched against:
//
//   - Keysym: a layout-independent key meaning ("t", "Super_L")
//   - Keycode: a physical key position reported by the server
//   - ModMask: a physical modifier mask (Shift, Lock, Control, Mod1-Mod5)
//   - VirtualModifier: an abstract modifier set (Control, Alt, Super, ...)
//   - Combo: a parsed accelerator, a keysym or keycode plus abstract modifiers
//   - Event: a raw key press or release
//
// # Accelerator Strings
//
// Accelerators use the "<Modifier>Keyname" syntax:
//
//   - "<Control><Alt>t", "<Super>Return", "<Ctl><Shft>Tab"
//   - "0x31" binds the raw hexadecimal keycode 0x31
//   - "Above_Tab" names the key above Tab regardless of its symbol
//   - "" and "disabled" leave the binding unbound
//
// Modifier and key names are matched case-insensitively.
package key
