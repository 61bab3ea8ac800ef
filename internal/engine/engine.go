package engine

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/dispatcher"
	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/grab"
	"github.com/dshills/wmkeys/internal/input/key"
	"github.com/dshills/wmkeys/internal/input/keymap"
	"github.com/dshills/wmkeys/internal/input/layout"
	"github.com/dshills/wmkeys/internal/input/modmap"
	"github.com/dshills/wmkeys/internal/input/special"
)

// Engine is the keybinding context of one session.
type Engine struct {
	backend    grab.Backend
	layouts    *layout.Table
	mods       *modmap.Translator
	resolver   *keymap.Resolver
	index      *keymap.Index
	controller *grab.Controller
	handlers   *dispatcher.Registry
	dispatcher *dispatcher.Dispatcher

	// Inputs of the last Reload.
	keymap    layout.Keymap
	group     int
	modSource modmap.Source

	prefs    []Pref
	specials SpecialPrefs
	bindings []*keymap.Binding
	builtin  map[string]bool

	external     map[handler.Action]*externalGrab
	nextExternal handler.Action

	overlay   *keymap.Binding
	locate    *keymap.Binding
	iso       []*keymap.Binding
	mouseMods key.VirtualModifier
	mouseMod  key.ModMask

	windows map[grab.WindowID]*grab.Window
	frames  map[grab.WindowID]*grab.Window
	focus   *grab.Window

	pending pendingWork
	closed  bool

	// Options
	dispatchConfig dispatcher.Config
	builtinFunc    handler.Func
	filter         dispatcher.Filter
	inhibitor      dispatcher.Inhibitor
	kbdGrab        dispatcher.KeyboardGrab
	switcher       dispatcher.LayoutSwitcher
	onAccelerator  AcceleratorFunc

	session    string
	baseLogger zerolog.Logger
	logger     zerolog.Logger
}

// New creates an engine grabbing through backend. The stock builtin
// handlers are registered; call Reload and SetPreferences to activate
// bindings.
func New(backend grab.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend:        backend,
		builtin:        make(map[string]bool),
		external:       make(map[handler.Action]*externalGrab),
		windows:        make(map[grab.WindowID]*grab.Window),
		frames:         make(map[grab.WindowID]*grab.Window),
		dispatchConfig: dispatcher.DefaultConfig(),
		baseLogger:     zerolog.Nop(),
		session:        uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.baseLogger.With().Str("session", e.session).Logger()
	e.layouts = layout.NewTable()
	e.mods = modmap.NewTranslator(e.logger)
	e.resolver = keymap.NewResolver(e.layouts, e.mods)
	e.index = keymap.NewIndex(e.logger)
	e.controller = grab.NewController(backend, e.logger)
	e.handlers = dispatcher.NewRegistry()
	e.dispatcher = dispatcher.New(dispatcher.Options{
		Config:     e.dispatchConfig,
		Index:      e.index,
		Handlers:   e.handlers,
		Controller: e.controller,
		Logger:     e.logger,
	})
	e.dispatcher.SetFilter(e.filter)
	e.dispatcher.SetInhibitor(e.inhibitor)
	e.dispatcher.SetKeyboardGrab(e.kbdGrab)
	e.logger = e.logger.With().Str("component", "engine").Logger()

	e.registerBuiltins()
	e.specials = DefaultSpecialPrefs()
	e.mods.Reload(modmap.DefaultSource())
	e.applyIgnoredMask()
	return e
}

func (e *Engine) registerBuiltins() {
	for _, b := range handler.Builtins() {
		fn := e.builtinFunc
		if b.Flags.Has(keymap.FlagNoAutoGrab) {
			// The special keys are driven by their state machines.
			fn = nil
		}
		if err := e.handlers.Register(handler.FromBuiltin(b, fn)); err != nil {
			e.logger.Warn().Err(err).Str("handler", b.Name).Msg("failed to register builtin")
			continue
		}
		e.builtin[b.Name] = true
	}
}

// SessionID returns the id carried in every log entry of this engine.
func (e *Engine) SessionID() string {
	return e.session
}

// Dispatcher returns the event dispatcher.
func (e *Engine) Dispatcher() *dispatcher.Dispatcher {
	return e.dispatcher
}

// Controller returns the grab controller.
func (e *Engine) Controller() *grab.Controller {
	return e.controller
}

// Handlers returns the handler registry.
func (e *Engine) Handlers() *dispatcher.Registry {
	return e.handlers
}

// Layouts returns the layout table.
func (e *Engine) Layouts() *layout.Table {
	return e.layouts
}

// Modifiers returns the modifier translator.
func (e *Engine) Modifiers() *modmap.Translator {
	return e.mods
}

// Bindings returns the current bindings in table order.
func (e *Engine) Bindings() []*keymap.Binding {
	return append([]*keymap.Binding(nil), e.bindings...)
}

// Binding returns the first binding named name, or nil.
func (e *Engine) Binding(name string) *keymap.Binding {
	for _, b := range e.bindings {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// specialBindings returns the pseudo-bindings of the special keys.
func (e *Engine) specialBindings() []*keymap.Binding {
	var out []*keymap.Binding
	if e.overlay != nil {
		out = append(out, e.overlay)
	}
	if e.locate != nil {
		out = append(out, e.locate)
	}
	return append(out, e.iso...)
}

func (e *Engine) applyIgnoredMask() {
	ignored := e.mods.IgnoredMask()
	e.index.SetIgnoredMask(ignored)
	e.controller.SetIgnoredMask(ignored)
	for _, m := range []*special.Machine{e.dispatcher.Overlay(), e.dispatcher.LocatePointer()} {
		if m != nil {
			m.SetIgnoredMask(ignored)
		}
	}
}
