// Package handler defines keybinding handlers and the builtin action table.
package handler

import (
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

// Func runs a binding. win is nil unless the handler is per-window; b is
// nil when the handler is invoked without a binding.
type Func func(win *grab.Window, ev key.Event, b *keymap.Binding, data any)

// Handler is a named callback that bindings refer to by name.
type Handler struct {
	Name   string
	Action Action
	Flags  keymap.Flags

	// Func overrides DefaultFunc when set.
	Func        Func
	DefaultFunc Func

	Data    any
	Destroy func(data any)
}

// New creates a handler with a default callback.
func New(name string, action Action, flags keymap.Flags, fn Func) *Handler {
	return &Handler{
		Name:        name,
		Action:      action,
		Flags:       flags,
		DefaultFunc: fn,
	}
}

// FromBuiltin creates a handler for a builtin action.
func FromBuiltin(b Builtin, fn Func) *Handler {
	return New(b.Name, b.Action, b.Flags, fn)
}

// Callback returns the function to run: the override when set, otherwise
// the default.
func (h *Handler) Callback() Func {
	if h.Func != nil {
		return h.Func
	}
	return h.DefaultFunc
}

// HasCallback reports whether the handler can be invoked. Placeholder
// handlers for the special keys have none.
func (h *Handler) HasCallback() bool {
	return h.Callback() != nil
}

// Invoke runs the handler. For handlers that are not per-window the window
// is replaced with nil.
func (h *Handler) Invoke(win *grab.Window, ev key.Event, b *keymap.Binding) bool {
	fn := h.Callback()
	if fn == nil {
		return false
	}
	if !h.Flags.Has(keymap.FlagPerWindow) {
		win = nil
	}
	fn(win, ev, b, h.Data)
	return true
}

// SetCustom overrides the callback. The previous custom data is destroyed.
func (h *Handler) SetCustom(fn Func, data any, destroy func(any)) {
	h.release()
	h.Func = fn
	h.Data = data
	h.Destroy = destroy
}

// release runs the destructor for the current data.
func (h *Handler) release() {
	if h.Destroy != nil && h.Data != nil {
		h.Destroy(h.Data)
	}
	h.Data = nil
	h.Destroy = nil
}

// Close releases the handler's data.
func (h *Handler) Close() {
	h.release()
}
