// Package lua runs keybinding scripts in a sandboxed gopher-lua state.
//
// A Runner owns one State and compiles each configured script once. The
// compiled chunk becomes a handler.Func; on every activation the script sees a
// read-only "event" table describing the key event and can call log() to
// write through the daemon's logger.
//
//	r, err := lua.NewRunner(logger)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	fn, err := r.Compile("say-hello", `log("hello from " .. event.binding)`)
//
// Scripts have no access to io, os, debug or the module loader. Each run is
// bounded by the execution timeout.
package lua
