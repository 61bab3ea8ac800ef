package engine

import "errors"

// Errors returned by engine operations.
var (
	// ErrUnknownHandler indicates no handler is registered under a name.
	ErrUnknownHandler = errors.New("unknown keybinding handler")

	// ErrNotRemovable indicates an attempt to remove a builtin binding.
	ErrNotRemovable = errors.New("builtin keybindings cannot be removed")

	// ErrUnknownWindow indicates the window is not managed.
	ErrUnknownWindow = errors.New("window is not managed")

	// ErrClosed indicates the engine has been shut down.
	ErrClosed = errors.New("engine is shut down")
)
