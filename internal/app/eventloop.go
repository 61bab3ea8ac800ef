package app

import (
	"context"
	"fmt"

	"github.com/dshills/wmkeys/internal/backend"
	"github.com/dshills/wmkeys/internal/config"
	"github.com/dshills/wmkeys/internal/config/watcher"
)

// Run processes events until ctx is done or the backend closes. All engine
// work happens on the calling goroutine; work requested while a binding
// runs is carried out after the event that caused it.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	events := make(chan backend.Event, 64)
	go app.pump(ctx, events)

	var fsEvents <-chan watcher.Event
	var fsErrors <-chan error
	if app.watcher != nil {
		fsEvents = app.watcher.Events()
		fsErrors = app.watcher.Errors()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if err := app.handleBackendEvent(ev); err != nil {
				return err
			}

		case fe, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			app.handleConfigEvent(fe)

		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			app.logger.Warn().Err(err).Msg("config watcher")

		case <-app.reload:
			app.ReloadConfig()
		}

		app.engine.RunDeferred()
	}
}

// RequestReload asks the loop to reload the configuration file. It never
// blocks and may be called from any goroutine.
func (app *Application) RequestReload() {
	select {
	case app.reload <- struct{}{}:
	default:
	}
}

// pump forwards backend events until the backend closes.
func (app *Application) pump(ctx context.Context, out chan<- backend.Event) {
	for {
		ev := app.backend.PollEvent()
		select {
		case out <- ev:
		case <-ctx.Done():
			return
		}
		if ev.Type == backend.EventClosed {
			return
		}
	}
}

// handleBackendEvent routes one backend event.
func (app *Application) handleBackendEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		handled := app.engine.ProcessKeyEvent(ev.Window, ev.Key)
		app.logger.Trace().
			Stringer("event", ev.Key).
			Bool("handled", handled).
			Msg("key event")
	case backend.EventButton:
		app.engine.ProcessPointerEvent()
	case backend.EventMapping:
		if err := app.reloadKeyboard(); err != nil {
			app.logger.Warn().Err(err).Bool("modifiers", ev.Modifiers).Msg("reloading keyboard mapping")
		}
	case backend.EventClosed:
		if ev.Err != nil {
			return fmt.Errorf("%w: %v", ErrBackendClosed, ev.Err)
		}
		return ErrBackendClosed
	}
	return nil
}

// handleConfigEvent reloads the configuration after the file changed. A
// removed file keeps the running configuration.
func (app *Application) handleConfigEvent(ev watcher.Event) {
	if ev.Op == watcher.OpRemove {
		app.logger.Warn().Str("path", ev.Path).Msg("config file removed, keeping current bindings")
		return
	}
	app.ReloadConfig()
}

// ReloadConfig loads the configuration file again and applies it. Invalid
// files keep the running configuration. Must be called from the loop
// goroutine or before Run.
func (app *Application) ReloadConfig() {
	path := app.opts.ConfigPath
	if path == "" {
		return
	}
	cfg, err := config.Load(path)
	if err != nil {
		app.logger.Warn().Err(err).Str("path", path).Msg("config reload failed, keeping current bindings")
		return
	}
	app.applyConfig(cfg)
	app.logger.Info().
		Str("path", path).
		Int("bindings", len(app.engine.Bindings())).
		Msg("config reloaded")
}
