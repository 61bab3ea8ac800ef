// Package grab keeps the windowing system's passive grabs in step with the
// binding index.
//
// Every grab is expanded over the ignored modifier bits, so a shortcut
// bound to <Control>q fires whether or not NumLock or CapsLock is on. Grabs
// are tracked per target window: global bindings live on the root window,
// per-window bindings on each managed client or its frame. A target's grabs
// are always torn down before its frame changes and then recreated; they
// are never moved.
package grab
