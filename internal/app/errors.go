package app

import (
	"errors"
)

// Application errors.
var (
	// ErrAlreadyRunning indicates Run was called twice.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrBackendClosed indicates the display connection went away.
	ErrBackendClosed = errors.New("backend connection closed")

	// ErrEmptyCommand indicates a command binding without argv.
	ErrEmptyCommand = errors.New("empty command")
)

// InitError reports which component failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}
