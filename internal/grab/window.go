package grab

import (
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

// Window is the grab state of one managed window, or of the root.
type Window struct {
	// ID is the client window.
	ID WindowID

	// Frame is the decoration window, or zero when undecorated.
	Frame WindowID

	// Dock and OverrideRedirect windows never take keyboard focus and hold
	// no per-window grabs.
	Dock             bool
	OverrideRedirect bool

	root bool

	keysGrabbed    bool
	grabOnFrame    bool
	allKeysGrabbed bool
	keyTarget      WindowID
	keyCombos      []keymap.ResolvedCombo

	buttonMask     key.ModMask
	buttonsGrabbed bool
	focusClickGrab bool
}

// NewWindow creates grab state for a client window.
func NewWindow(id WindowID) *Window {
	return &Window{ID: id}
}

// Toplevel returns the frame when present, otherwise the client window.
func (w *Window) Toplevel() WindowID {
	if w.Frame != 0 {
		return w.Frame
	}
	return w.ID
}

// Focusable reports whether the window can receive per-window grabs.
func (w *Window) Focusable() bool {
	return w.root || (!w.Dock && !w.OverrideRedirect)
}

// IsRoot reports whether w is the root window state.
func (w *Window) IsRoot() bool {
	return w.root
}

// KeysGrabbed reports whether passive key grabs are held.
func (w *Window) KeysGrabbed() bool {
	return w.keysGrabbed
}

// AllKeysGrabbed reports whether an exclusive keyboard grab is held.
func (w *Window) AllKeysGrabbed() bool {
	return w.allKeysGrabbed
}

// GrabbedOnFrame reports whether the key grabs live on the frame.
func (w *Window) GrabbedOnFrame() bool {
	return w.grabOnFrame
}

// HasFocusClickGrab reports whether the click-to-focus grab is held.
func (w *Window) HasFocusClickGrab() bool {
	return w.focusClickGrab
}
