package engine

import (
	"fmt"
	"slices"

	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

// AddKeybinding registers a handler named name bound to accels and
// rebuilds. It fails if the name is taken.
func (e *Engine) AddKeybinding(name string, accels []string, flags keymap.Flags, fn handler.Func, data any, destroy func(any)) error {
	if e.closed {
		return ErrClosed
	}
	h := handler.New(name, handler.ActionNone, flags&^keymap.FlagBuiltin, fn)
	h.Data = data
	h.Destroy = destroy
	if err := e.handlers.Register(h); err != nil {
		return err
	}
	e.prefs = append(e.prefs, Pref{Name: name, Accelerators: append([]string(nil), accels...)})
	e.Rebuild()
	return nil
}

// RemoveKeybinding removes a binding added with AddKeybinding.
func (e *Engine) RemoveKeybinding(name string) error {
	if e.builtin[name] {
		return fmt.Errorf("%w: %s", ErrNotRemovable, name)
	}
	if !e.handlers.Unregister(name) {
		return fmt.Errorf("%w: %s", ErrUnknownHandler, name)
	}
	e.prefs = slices.DeleteFunc(e.prefs, func(p Pref) bool { return p.Name == name })
	e.Rebuild()
	return nil
}

// SetCustomHandler overrides the callback of the handler named name. The
// default callback is kept and is used again once fn is nil.
func (e *Engine) SetCustomHandler(name string, fn handler.Func, data any, destroy func(any)) error {
	if err := e.handlers.SetCustom(name, fn, data, destroy); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownHandler, name)
	}
	return nil
}

// GrabAccelerator grabs accel on the root window for an external client
// and returns the action reported when it fires. It returns ActionNone if
// accel does not parse, has no key on the current layout, or is already
// bound.
func (e *Engine) GrabAccelerator(accel string, flags keymap.Flags) handler.Action {
	if e.closed {
		return handler.ActionNone
	}
	combo, err := key.Parse(accel)
	if err != nil {
		e.logger.Warn().Err(err).Str("accelerator", accel).Msg("failed to parse accelerator")
		return handler.ActionNone
	}
	rc := e.resolver.Resolve(combo)
	if rc.IsEmpty() {
		e.logger.Debug().Str("accelerator", accel).Msg("accelerator has no keycode on this layout")
		return handler.ActionNone
	}
	if existing := e.index.Lookup(rc); existing != nil {
		e.logger.Debug().Str("accelerator", accel).Str("bound", existing.Name).Msg("accelerator already bound")
		return handler.ActionNone
	}

	e.nextExternal++
	action := handler.ActionLast + e.nextExternal
	name := action.String()
	flags &^= keymap.FlagPerWindow | keymap.FlagBuiltin | keymap.FlagNoAutoGrab
	h := handler.New(name, action, flags, func(_ *grab.Window, ev key.Event, _ *keymap.Binding, _ any) {
		if e.onAccelerator != nil {
			e.onAccelerator(action, ev.Device, ev.Time)
		}
	})
	if err := e.handlers.Register(h); err != nil {
		e.logger.Warn().Err(err).Str("accelerator", accel).Msg("failed to register accelerator")
		return handler.ActionNone
	}

	b := keymap.NewBinding(name, combo, name, flags)
	b.Resolved = rc
	e.external[action] = &externalGrab{action: action, combo: combo, binding: b}
	e.bindings = append(e.bindings, b)
	e.index.Add(b)
	e.regrabRoot()

	e.logger.Debug().Str("accelerator", accel).Stringer("action", action).Stringer("resolved", rc).Msg("grabbed accelerator")
	return action
}

// UngrabAccelerator releases an accelerator returned by GrabAccelerator.
func (e *Engine) UngrabAccelerator(action handler.Action) bool {
	x, ok := e.external[action]
	if !ok {
		return false
	}
	delete(e.external, action)
	e.index.Remove(x.binding)
	e.bindings = slices.DeleteFunc(e.bindings, func(b *keymap.Binding) bool { return b == x.binding })
	e.handlers.Unregister(x.binding.Handler)
	if !e.closed {
		e.regrabRoot()
	}
	return true
}

func (e *Engine) externalsInOrder() []*externalGrab {
	out := make([]*externalGrab, 0, len(e.external))
	for _, x := range e.external {
		out = append(out, x)
	}
	slices.SortFunc(out, func(a, b *externalGrab) int { return int(a.action) - int(b.action) })
	return out
}

// ActionFor returns the action bound to a keycode and modifier state. It
// does not dispatch.
func (e *Engine) ActionFor(code key.Keycode, state key.ModMask) handler.Action {
	b := e.dispatcher.Lookup(code, state)
	if b == nil {
		return handler.ActionNone
	}
	if h := e.handlers.Get(b.Handler); h != nil {
		return h.Action
	}
	return handler.ActionNone
}

// InvokeByCode runs the handler bound to a keycode and modifier state as
// if the key had been pressed with no focus window.
func (e *Engine) InvokeByCode(code key.Keycode, state key.ModMask) bool {
	b := e.dispatcher.Lookup(code, state)
	if b == nil {
		return false
	}
	h := e.handlers.Get(b.Handler)
	if h == nil || !h.HasCallback() {
		return false
	}
	ev := key.NewPress(code, state, key.TimeCurrent)
	if err := e.dispatcher.Invoke(h, nil, ev, b); err != nil {
		e.logger.Error().Err(err).Str("binding", b.Name).Msg("handler failed")
	}
	e.RunDeferred()
	return true
}

// IsOverlayKey reports whether a keycode and modifier state is the overlay
// key.
func (e *Engine) IsOverlayKey(code key.Keycode, state key.ModMask) bool {
	if e.overlay == nil {
		return false
	}
	mask := state & key.ModMaskCore &^ e.mods.IgnoredMask()
	return e.overlay.Resolved.Matches(code, mask)
}

// SetKeybindingsDisabled turns every keybinding off or back on. While off
// events are replayed to clients.
func (e *Engine) SetKeybindingsDisabled(disabled bool) {
	e.dispatcher.SetDisabled(disabled)
}
