package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrEmptyScript is returned when compiling a blank script.
	ErrEmptyScript = errors.New("lua script is empty")

	// ErrUnknownScript is returned when running a name that was never compiled.
	ErrUnknownScript = errors.New("lua script not compiled")
)
