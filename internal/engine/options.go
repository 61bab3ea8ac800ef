package engine

import (
	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/dispatcher"
	"github.com/dshills/wmkeys/internal/dispatcher/handler"
	"github.com/dshills/wmkeys/internal/input/key"
)

// AcceleratorFunc is called when an external accelerator grab fires.
type AcceleratorFunc func(action handler.Action, device key.DeviceID, t key.Timestamp)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLogger sets the logger. The engine adds a session field.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.baseLogger = logger
	}
}

// WithDispatcherConfig sets the dispatcher configuration.
func WithDispatcherConfig(cfg dispatcher.Config) Option {
	return func(e *Engine) {
		e.dispatchConfig = cfg
	}
}

// WithBuiltinHandler sets the default callback of every builtin action.
// Without it builtin handlers are inert until SetCustomHandler is called.
func WithBuiltinHandler(fn handler.Func) Option {
	return func(e *Engine) {
		e.builtinFunc = fn
	}
}

// WithFilter installs the compositor filter consulted before running any
// binding, including the special keys.
func WithFilter(f dispatcher.Filter) Option {
	return func(e *Engine) {
		e.filter = f
	}
}

// WithInhibitor installs the shortcut inhibitor.
func WithInhibitor(i dispatcher.Inhibitor) Option {
	return func(e *Engine) {
		e.inhibitor = i
	}
}

// WithKeyboardGrab installs the handler for exclusive keyboard grabs.
func WithKeyboardGrab(g dispatcher.KeyboardGrab) Option {
	return func(e *Engine) {
		e.kbdGrab = g
	}
}

// WithLayoutSwitcher installs the target of the ISO next group combos.
func WithLayoutSwitcher(s dispatcher.LayoutSwitcher) Option {
	return func(e *Engine) {
		e.switcher = s
	}
}

// WithAcceleratorListener sets the callback for external accelerator grabs.
func WithAcceleratorListener(fn AcceleratorFunc) Option {
	return func(e *Engine) {
		e.onAccelerator = fn
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.session = id
		}
	}
}
