// Package x11 implements the daemon backend on the X11 core protocol using
// xgb. Keyboard and modifier maps are read with GetKeyboardMapping and
// GetModifierMapping; no XKB requests are issued.
package x11
