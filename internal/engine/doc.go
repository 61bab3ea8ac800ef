// Package engine ties keybinding resolution, indexing, grabbing and
// dispatch together for one window manager session.
//
// # Architecture
//
// The engine owns every piece of keybinding state:
//
//   - layout.Table: active and fallback keyboard layouts
//   - modmap.Translator: virtual to physical modifier translation
//   - keymap.Index: packed (keycode, mask) lookup
//   - grab.Controller: passive grabs on the root and client windows
//   - dispatcher.Dispatcher: event routing, special keys, handlers
//
// Two independent triggers invalidate derived state. Rebuild runs when
// preferences or the handler table change; Reload runs when the keyboard
// mapping, layout group or modifier mapping changes. Both clear the index
// and resynchronize passive grabs, so the index and the server never
// disagree about which shortcuts exist.
//
// # Threading
//
// An Engine is driven from a single event loop and is not safe for
// concurrent use. Handlers run synchronously inside ProcessKeyEvent; a
// Rebuild or Reload requested from a handler is deferred until the loop
// calls RunDeferred.
//
// # Basic Usage
//
//	e := engine.New(backend, engine.WithLogger(logger))
//	e.Reload(keymap, 0, modSource)
//	e.SetPreferences([]engine.Pref{
//		{Name: "switch-to-workspace-1", Accelerators: []string{"<Super>1"}},
//	})
//
//	for ev := range events {
//		e.ProcessKeyEvent(ev.Window, ev.Key)
//		e.RunDeferred()
//	}
package engine
