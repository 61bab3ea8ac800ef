package engine

import (
	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
	"github.com/dshills/wmkeys/internal/input/layout"
	"github.com/dshills/wmkeys/internal/input/modmap"
	"github.com/dshills/wmkeys/internal/input/special"
)

// SetPreferences replaces the preference list and rebuilds the bindings.
func (e *Engine) SetPreferences(prefs []Pref) {
	e.prefs = append([]Pref(nil), prefs...)
	e.Rebuild()
}

// Preferences returns the current preference list.
func (e *Engine) Preferences() []Pref {
	return append([]Pref(nil), e.prefs...)
}

// SetSpecialPrefs replaces the special key configuration and rebuilds.
func (e *Engine) SetSpecialPrefs(sp SpecialPrefs) {
	e.specials = sp
	e.Rebuild()
}

// Reload installs a new keyboard mapping, layout group and modifier
// mapping, then re-resolves every binding. A nil keymap is replaced by the
// US fallback layout and a nil source by the stock modifier mapping.
func (e *Engine) Reload(km layout.Keymap, group int, src modmap.Source) {
	if km == nil {
		km = layout.USKeymap()
	}
	if src == nil {
		src = modmap.DefaultSource()
	}
	e.keymap = km
	e.group = group
	e.modSource = src
	e.request(pendingReload)
}

// SetLayoutGroup switches the active layout group of the current keymap.
func (e *Engine) SetLayoutGroup(group int) {
	if e.keymap == nil {
		e.keymap = layout.USKeymap()
	}
	e.group = group
	e.request(pendingReload)
}

// ReloadModifiers installs a new modifier mapping.
func (e *Engine) ReloadModifiers(src modmap.Source) {
	if src == nil {
		src = modmap.DefaultSource()
	}
	e.modSource = src
	e.request(pendingReload)
}

// Rebuild recreates the binding table from the preferences and external
// grabs, then re-resolves and regrabs.
func (e *Engine) Rebuild() {
	e.request(pendingRebuild)
}

// Pending reports whether deferred work is waiting for RunDeferred.
func (e *Engine) Pending() bool {
	return e.pending != 0
}

func (e *Engine) request(work pendingWork) {
	if e.closed {
		return
	}
	e.pending |= work
	if e.dispatcher.Dispatching() {
		e.logger.Debug().Msg("deferring keybinding reload until dispatch completes")
		return
	}
	e.RunDeferred()
}

// RunDeferred runs every reload and rebuild requested since the last call.
// The event loop calls it after each event.
func (e *Engine) RunDeferred() {
	if e.pending == 0 || e.dispatcher.Dispatching() || e.closed {
		return
	}
	work := e.pending
	e.pending = 0

	e.ungrabAll()
	if work&pendingReload != 0 {
		e.reloadLayouts()
	}
	if work&pendingRebuild != 0 {
		e.rebuildTable()
		e.rebuildSpecials()
	}
	e.reloadCombos()
	e.grabAll()
}

func (e *Engine) reloadLayouts() {
	if e.modSource != nil {
		e.mods.Reload(e.modSource)
	}
	if e.keymap != nil {
		e.layouts.SetActiveLayout(e.keymap, e.group)
	}
	e.applyIgnoredMask()
}

// rebuildTable expands preferences in order, then external grabs.
func (e *Engine) rebuildTable() {
	e.bindings = e.bindings[:0]
	for _, pref := range e.prefs {
		h := e.handlers.Get(pref.Name)
		if h == nil {
			e.logger.Warn().Str("binding", pref.Name).Msg("no handler for keybinding preference")
			continue
		}
		for _, accel := range pref.Accelerators {
			combo, err := key.Parse(accel)
			if err != nil {
				e.logger.Warn().Err(err).Str("binding", pref.Name).Str("accelerator", accel).Msg("failed to parse keybinding")
				continue
			}
			if combo.IsZero() {
				continue
			}
			e.addPrefBinding(h, combo)
		}
	}
	for _, x := range e.externalsInOrder() {
		e.bindings = append(e.bindings, x.binding)
	}
	e.logger.Debug().Int("bindings", len(e.bindings)).Msg("rebuilt keybinding table")
}

func (e *Engine) addPrefBinding(h *handler.Handler, combo key.Combo) {
	if !h.Flags.Has(keymap.FlagReverses) {
		e.bindings = append(e.bindings, keymap.NewBinding(h.Name, combo, h.Name, h.Flags))
		return
	}
	if combo.Modifiers.Without(key.VirtualShift).IsEmpty() {
		e.logger.Warn().
			Str("binding", h.Name).
			Stringer("combo", combo).
			Msg("reversible keybinding needs a modifier such as Ctrl or Alt")
		return
	}
	e.bindings = append(e.bindings, keymap.NewBinding(h.Name, combo, h.Name, h.Flags))
	if !combo.Modifiers.Has(key.VirtualShift) {
		e.logger.Debug().Str("binding", h.Name).Msg("binding also needs Shift grabbed")
		shifted := combo.WithModifiers(combo.Modifiers.With(key.VirtualShift))
		e.bindings = append(e.bindings, keymap.NewBinding(h.Name, shifted, h.Name, h.Flags))
	}
}

func (e *Engine) rebuildSpecials() {
	e.overlay = e.specialBinding(handler.NameOverlayKey, e.specials.OverlayKey)
	e.locate = nil
	if e.specials.LocatePointerEnabled {
		e.locate = e.specialBinding(handler.NameLocatePointerKey, e.specials.LocatePointerKey)
	}

	e.iso = e.iso[:0]
	for _, combo := range keymap.ISONextGroupCombos(e.specials.ISONextGroup) {
		e.iso = append(e.iso, keymap.NewBinding(handler.NameISONextGroup, combo, handler.NameISONextGroup, keymap.FlagBuiltin|keymap.FlagNoAutoGrab))
	}

	e.mouseMods = key.VirtualNone
	if e.specials.MouseButtonModifier != "" {
		mods, err := key.ParseModifier(e.specials.MouseButtonModifier)
		if err != nil {
			e.logger.Warn().Err(err).Str("modifier", e.specials.MouseButtonModifier).Msg("failed to parse mouse button modifier")
		} else {
			e.mouseMods = mods
		}
	}
}

func (e *Engine) specialBinding(name, accel string) *keymap.Binding {
	combo, err := key.Parse(accel)
	if err != nil {
		e.logger.Warn().Err(err).Str("binding", name).Str("accelerator", accel).Msg("failed to parse special key")
		return nil
	}
	if combo.IsZero() {
		return nil
	}
	return keymap.NewBinding(name, combo, name, keymap.FlagBuiltin|keymap.FlagNoAutoGrab)
}

// reloadCombos resolves every binding and repopulates the index from
// scratch.
func (e *Engine) reloadCombos() {
	e.index.Clear()
	for _, b := range e.bindings {
		b.Resolved = e.resolver.Resolve(b.Combo)
		if b.Resolved.IsEmpty() {
			e.logger.Debug().Str("binding", b.Name).Stringer("combo", b.Combo).Msg("keybinding has no keycode on this layout")
			continue
		}
		e.index.Add(b)
	}

	for _, b := range e.specialBindings() {
		b.Resolved = e.resolver.Resolve(b.Combo)
	}
	e.dispatcher.SetSpecialMachines(e.newMachine(e.overlay), e.newMachine(e.locate))
	e.applyIgnoredMask()

	var iso []keymap.ResolvedCombo
	for _, b := range e.iso {
		if !b.Resolved.IsEmpty() {
			iso = append(iso, b.Resolved)
		}
	}
	var first *keymap.Binding
	if len(e.iso) > 0 {
		first = e.iso[0]
	}
	e.dispatcher.SetISONextGroup(first, iso, e.switcher)

	e.mouseMod = e.mods.Devirtualize(e.mouseMods)
}

func (e *Engine) newMachine(b *keymap.Binding) *special.Machine {
	if b == nil || b.Resolved.IsEmpty() {
		return nil
	}
	return special.New(b, special.Config{
		Allower: e.controller,
		Global:  e.dispatcher.ProcessGlobal,
		Filter:  special.FilterFunc(e.filter),
		Trigger: func(ev key.Event) { e.triggerSpecial(b, ev) },
		Logger:  e.logger,
	})
}

// triggerSpecial runs the custom handler installed for a special key.
func (e *Engine) triggerSpecial(b *keymap.Binding, ev key.Event) {
	h := e.handlers.Get(b.Handler)
	if h == nil || !h.HasCallback() {
		e.logger.Debug().Str("binding", b.Name).Msg("special key has no handler")
		return
	}
	if err := e.dispatcher.Invoke(h, nil, ev, b); err != nil {
		e.logger.Error().Err(err).Str("binding", b.Name).Msg("special key handler failed")
	}
}

// rootCombos lists what the root window grabs: global bindings plus the
// special keys.
func (e *Engine) rootCombos() []keymap.ResolvedCombo {
	var out []keymap.ResolvedCombo
	for _, b := range e.bindings {
		if b.Grabbable() && !b.IsPerWindow() {
			out = append(out, b.Resolved)
		}
	}
	for _, b := range e.specialBindings() {
		if !b.Resolved.IsEmpty() {
			out = append(out, b.Resolved)
		}
	}
	return out
}

// windowCombos lists what client windows grab.
func (e *Engine) windowCombos() []keymap.ResolvedCombo {
	var out []keymap.ResolvedCombo
	for _, b := range e.bindings {
		if b.Grabbable() && b.IsPerWindow() {
			out = append(out, b.Resolved)
		}
	}
	return out
}

func (e *Engine) grabAll() {
	root := e.controller.Root()
	if !e.controller.GrabKeys(root, e.rootCombos()) {
		e.logger.Warn().Msg("some global keybindings could not be grabbed")
	}
	combos := e.windowCombos()
	for _, w := range e.windows {
		e.controller.GrabKeys(w, combos)
		e.controller.UngrabWindowButtons(w)
		e.controller.GrabWindowButtons(w, e.mouseMod)
	}
}

func (e *Engine) ungrabAll() {
	e.controller.UngrabKeys(e.controller.Root())
	for _, w := range e.windows {
		e.controller.UngrabKeys(w)
	}
}

// regrabRoot resynchronizes the root window grabs only.
func (e *Engine) regrabRoot() {
	root := e.controller.Root()
	e.controller.UngrabKeys(root)
	e.controller.GrabKeys(root, e.rootCombos())
}

// Shutdown releases every grab and runs handler destructors. The engine
// ignores all further requests.
func (e *Engine) Shutdown() {
	if e.closed {
		return
	}
	e.ungrabAll()
	for _, w := range e.windows {
		e.controller.UngrabWindowButtons(w)
		e.controller.UngrabFocusButtons(w)
	}
	e.handlers.Clear()
	e.index.Clear()
	e.dispatcher.SetSpecialMachines(nil, nil)
	e.pending = 0
	e.closed = true
	e.logger.Info().Msg("keybindings shut down")
}

// grabWindow sets up all grabs of a newly managed window.
func (e *Engine) grabWindow(w *grab.Window) {
	e.controller.GrabKeys(w, e.windowCombos())
	e.controller.GrabWindowButtons(w, e.mouseMod)
	if w != e.focus {
		e.controller.GrabFocusButtons(w)
	}
}
