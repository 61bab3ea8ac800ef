package app

import (
	"github.com/dshills/wmkeys/internal/config"
	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/engine"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
)

// applyConfig replaces every configured binding with the ones in cfg.
// Bindings that fail to compile are skipped with a warning.
func (app *Application) applyConfig(cfg *config.Config) {
	kb := cfg.Keybindings

	for _, name := range app.custom {
		if err := app.engine.RemoveKeybinding(name); err != nil {
			app.logger.Debug().Err(err).Str("binding", name).Msg("removing custom binding")
		}
		app.scripts.Forget(name)
	}
	app.custom = app.custom[:0]

	app.engine.SetSpecialPrefs(engine.SpecialPrefs{
		OverlayKey:           kb.OverlayKey,
		LocatePointerKey:     kb.LocatePointerKey,
		LocatePointerEnabled: kb.LocatePointer,
		ISONextGroup:         kb.ISONextGroup,
		MouseButtonModifier:  kb.MouseButtonModifier,
	})

	var prefs []engine.Pref
	for _, b := range kb.Bindings {
		if !b.IsCustom() {
			prefs = append(prefs, engine.Pref{Name: b.Name, Accelerators: b.Accelerators})
		}
	}
	app.engine.SetPreferences(prefs)

	for _, b := range kb.Bindings {
		if !b.IsCustom() {
			continue
		}
		fn, err := app.customHandler(b)
		if err != nil {
			app.logger.Warn().Err(err).Str("binding", b.Name).Msg("skipping binding")
			continue
		}
		if err := app.engine.AddKeybinding(b.Name, b.Accelerators, b.ParsedFlags(), fn, nil, nil); err != nil {
			app.logger.Warn().Err(err).Str("binding", b.Name).Msg("skipping binding")
			app.scripts.Forget(b.Name)
			continue
		}
		app.custom = append(app.custom, b.Name)
	}

	app.engine.SetKeybindingsDisabled(kb.Disabled)
	app.config = cfg
}

// customHandler builds the callback of a command or Lua binding.
func (app *Application) customHandler(b config.BindingConfig) (handler.Func, error) {
	if b.Lua != "" {
		return app.scripts.Compile(b.Name, b.Lua)
	}
	argv := append([]string(nil), b.Command...)
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return func(_ *grab.Window, ev key.Event, kb *keymap.Binding, _ any) {
		if err := app.spawn(argv); err != nil {
			app.logger.Warn().Err(err).Str("binding", kb.Name).Msg("command failed")
			return
		}
		app.logger.Info().
			Str("binding", kb.Name).
			Strs("command", argv).
			Uint32("time", uint32(ev.Time)).
			Msg("command started")
	}, nil
}

// runBuiltin reports a builtin action. Window management itself belongs to
// the window manager consuming these events.
func (app *Application) runBuiltin(win *grab.Window, ev key.Event, b *keymap.Binding, _ any) {
	e := app.logger.Info().
		Str("action", b.Handler).
		Stringer("combo", b.Combo).
		Bool("reversed", b.IsReversed()).
		Uint32("time", uint32(ev.Time))
	if win != nil {
		e = e.Uint32("window", uint32(win.ID))
	}
	e.Msg("action")
}

// installSpecialHandlers reports overlay and locate-pointer activations.
func (app *Application) installSpecialHandlers() {
	for _, name := range []string{handler.NameOverlayKey, handler.NameLocatePointerKey} {
		fn := func(_ *grab.Window, ev key.Event, _ *keymap.Binding, _ any) {
			app.logger.Info().Str("action", name).Uint32("time", uint32(ev.Time)).Msg("action")
		}
		if err := app.engine.SetCustomHandler(name, fn, nil, nil); err != nil {
			app.logger.Warn().Err(err).Str("action", name).Msg("special key handler")
		}
	}
}

func (app *Application) acceleratorActivated(action handler.Action, device key.DeviceID, t key.Timestamp) {
	app.logger.Info().
		Stringer("action", action).
		Int("device", int(device)).
		Uint32("time", uint32(t)).
		Msg("accelerator activated")
}

// groupSwitcher cycles the layout group used to resolve keysyms.
type groupSwitcher struct {
	app *Application
}

func (s groupSwitcher) LockNextGroup(t key.Timestamp) {
	app := s.app
	n := app.layouts
	if n < 1 {
		n = 1
	}
	app.group = (app.group + 1) % n
	app.engine.SetLayoutGroup(app.group)
	app.logger.Info().Int("group", app.group).Uint32("time", uint32(t)).Msg("layout group locked")
}
