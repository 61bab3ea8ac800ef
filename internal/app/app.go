// Package app wires the configuration, the display backend and the
// keybinding engine together and runs the event loop.
package app

import (
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/wmkeys/internal/backend"
	"github.com/dshills/wmkeys/internal/config"
	"github.com/dshills/wmkeys/internal/config/watcher"
	"github.com/dshills/wmkeys/internal/dispatcher"
	"github.com/dshills/wmkeys/internal/engine"
	"github.com/dshills/wmkeys/internal/plugin/lua"
)

// Application is the keybinding daemon.
type Application struct {
	backend backend.Backend
	engine  *engine.Engine
	scripts *lua.Runner
	watcher *watcher.Watcher
	spawn   Spawner

	config *config.Config
	custom []string

	group   int
	layouts int

	reload chan struct{}

	running atomic.Bool
	closed  bool
	logger  zerolog.Logger

	opts Options
}

// Options configures the application.
type Options struct {
	// Backend is the display connection. Required.
	Backend backend.Backend

	// Config is the initial configuration. Nil uses config.Default.
	Config *config.Config

	// ConfigPath is reloaded when it changes on disk. Empty disables the
	// watcher.
	ConfigPath string

	// Logger is the root logger.
	Logger zerolog.Logger

	// Spawner starts command bindings. Nil runs them with os/exec.
	Spawner Spawner

	// ScriptTimeout bounds each Lua binding run. Zero keeps the default.
	ScriptTimeout time.Duration

	// Debounce is the config watcher debounce interval. Zero keeps the
	// watcher default.
	Debounce time.Duration

	// DisableMetrics turns off the per-binding dispatch counters logged on
	// Close.
	DisableMetrics bool
}

// New creates the application, applies the configuration and takes the
// initial grabs.
func New(opts Options) (*Application, error) {
	app := &Application{
		backend: opts.Backend,
		config:  opts.Config,
		reload:  make(chan struct{}, 1),
		logger:  opts.Logger.With().Str("component", "app").Logger(),
		opts:    opts,
	}
	if app.config == nil {
		app.config = config.Default()
	}
	app.spawn = opts.Spawner
	if app.spawn == nil {
		app.spawn = execSpawner(app.logger)
	}

	if err := app.bootstrap(); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes the components in dependency order.
func (app *Application) bootstrap() error {
	var luaOpts []lua.StateOption
	if app.opts.ScriptTimeout > 0 {
		luaOpts = append(luaOpts, lua.WithExecutionTimeout(app.opts.ScriptTimeout))
	}
	scripts, err := lua.NewRunner(app.opts.Logger, luaOpts...)
	if err != nil {
		return &InitError{Component: "lua", Err: err}
	}
	app.scripts = scripts

	dcfg := dispatcher.DefaultConfig()
	if !app.opts.DisableMetrics {
		dcfg = dcfg.WithMetrics()
	}
	app.engine = engine.New(app.backend,
		engine.WithLogger(app.opts.Logger),
		engine.WithDispatcherConfig(dcfg),
		engine.WithBuiltinHandler(app.runBuiltin),
		engine.WithLayoutSwitcher(groupSwitcher{app}),
		engine.WithAcceleratorListener(app.acceleratorActivated),
	)
	app.installSpecialHandlers()

	if err := app.reloadKeyboard(); err != nil {
		return &InitError{Component: "keyboard", Err: err}
	}
	app.applyConfig(app.config)

	if app.opts.ConfigPath != "" {
		var wopts []watcher.Option
		if app.opts.Debounce > 0 {
			wopts = append(wopts, watcher.WithDebounce(app.opts.Debounce))
		}
		w, err := watcher.New(wopts...)
		if err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
		app.watcher = w
		if err := w.Watch(app.opts.ConfigPath); err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
	}

	app.logger.Info().
		Str("session", app.engine.SessionID()).
		Int("bindings", len(app.engine.Bindings())).
		Msg("keybindings ready")
	return nil
}

// reloadKeyboard fetches the keyboard and modifier maps from the backend.
func (app *Application) reloadKeyboard() error {
	km, err := app.backend.Keymap()
	if err != nil {
		return err
	}
	src, err := app.backend.Modifiers(km)
	if err != nil {
		return err
	}
	app.layouts = km.NumLayouts()
	if app.layouts > 0 {
		app.group %= app.layouts
	}
	app.engine.Reload(km, app.group, src)
	return nil
}

// Engine returns the keybinding engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Config returns the configuration currently applied.
func (app *Application) Config() *config.Config {
	return app.config
}

// Close ungrabs everything and releases every component. It is safe to call
// more than once.
func (app *Application) Close() {
	if app.closed {
		return
	}
	app.closed = true
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.logger.Warn().Err(err).Msg("closing config watcher")
		}
		app.watcher = nil
	}
	if app.engine != nil {
		app.logStats()
		app.engine.Shutdown()
	}
	if app.scripts != nil {
		if err := app.scripts.Close(); err != nil {
			app.logger.Warn().Err(err).Msg("closing lua runner")
		}
		app.scripts = nil
	}
}

// logStats writes the most used bindings at debug level.
func (app *Application) logStats() {
	m := app.engine.Dispatcher().Metrics()
	if m == nil || m.TotalDispatches() == 0 {
		return
	}
	for _, bm := range m.TopBindings(5) {
		app.logger.Debug().
			Str("binding", bm.Name).
			Uint64("count", bm.DispatchCount).
			Dur("avg", bm.AverageDuration()).
			Dur("max", bm.MaxDuration).
			Msg("binding usage")
	}
	app.logger.Info().
		Uint64("dispatches", m.TotalDispatches()).
		Uint64("panics", m.TotalPanics()).
		Msg("dispatch summary")
}
