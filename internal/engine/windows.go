package engine

import (
	"fmt"

	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
)

// Manage starts tracking w and grabs its per-window bindings and buttons.
func (e *Engine) Manage(w *grab.Window) {
	if e.closed || w == nil {
		return
	}
	e.windows[w.ID] = w
	if w.Frame != 0 {
		e.frames[w.Frame] = w
	}
	e.grabWindow(w)
}

// Unmanage releases w's grabs and stops tracking it.
func (e *Engine) Unmanage(id grab.WindowID) {
	w, ok := e.windows[id]
	if !ok {
		return
	}
	e.controller.UngrabKeys(w)
	e.controller.UngrabWindowButtons(w)
	e.controller.UngrabFocusButtons(w)
	delete(e.windows, id)
	if w.Frame != 0 {
		delete(e.frames, w.Frame)
	}
	if e.focus == w {
		e.focus = nil
	}
}

// Window returns the managed window with id, matching either the client
// or its frame.
func (e *Engine) Window(id grab.WindowID) *grab.Window {
	if w, ok := e.windows[id]; ok {
		return w
	}
	return e.frames[id]
}

// SetWindowFrame reparents w into frame, or out of any frame when frame is
// zero. Key grabs move with it.
func (e *Engine) SetWindowFrame(id, frame grab.WindowID) error {
	w, ok := e.windows[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	if w.Frame != 0 {
		delete(e.frames, w.Frame)
	}
	e.controller.SetFrame(w, frame)
	if frame != 0 {
		e.frames[frame] = w
	}
	return nil
}

// SetFocusWindow records the focused window. Unfocused windows get
// click-to-focus button grabs.
func (e *Engine) SetFocusWindow(id grab.WindowID) {
	next := e.Window(id)
	if next == e.focus {
		return
	}
	if prev := e.focus; prev != nil {
		e.controller.GrabFocusButtons(prev)
	}
	e.focus = next
	if next != nil {
		e.controller.UngrabFocusButtons(next)
	}
}

// FocusWindow returns the focused window, or nil.
func (e *Engine) FocusWindow() *grab.Window {
	return e.focus
}

// GrabAllKeys takes an exclusive keyboard grab for window id, or the root
// window when id is zero or unknown.
func (e *Engine) GrabAllKeys(id grab.WindowID, t key.Timestamp) bool {
	w := e.Window(id)
	if w == nil {
		w = e.controller.Root()
	}
	return e.controller.GrabAllKeys(w, t)
}

// UngrabAllKeys releases GrabAllKeys and restores passive grabs.
func (e *Engine) UngrabAllKeys(id grab.WindowID, t key.Timestamp) {
	w := e.Window(id)
	combos := e.windowCombos()
	if w == nil {
		w = e.controller.Root()
		combos = e.rootCombos()
	}
	e.controller.UngrabAllKeys(w, t, combos)
}

// ProcessKeyEvent dispatches a key event reported on window id. Events on
// the root or an unmanaged window carry no window context. It reports
// whether the event was consumed.
func (e *Engine) ProcessKeyEvent(id grab.WindowID, ev key.Event) bool {
	if e.closed {
		return false
	}
	return e.dispatcher.ProcessKeyEvent(e.Window(id), ev)
}

// ProcessPointerEvent notes pointer activity. A click or scroll between
// press and release of a special key cancels its activation.
func (e *Engine) ProcessPointerEvent() {
	e.dispatcher.ResetSpecialKeys()
}
