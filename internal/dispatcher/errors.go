package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrNoHandler indicates no handler is registered under a name.
	ErrNoHandler = errors.New("dispatcher: no handler registered")

	// ErrDuplicateHandler indicates a handler name is already registered.
	ErrDuplicateHandler = errors.New("dispatcher: handler already registered")

	// ErrInvalidHandler indicates a handler without a name.
	ErrInvalidHandler = errors.New("dispatcher: invalid handler")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")
)
