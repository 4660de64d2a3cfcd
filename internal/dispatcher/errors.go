package dispatcher

import "errors"

// Dispatcher errors.
var (
	// ErrCancelled indicates a pre-dispatch hook vetoed a primitive.
	ErrCancelled = errors.New("dispatcher: primitive cancelled by hook")

	// ErrNotDefinable indicates an attempt to register a primitive under a
	// character token that cannot carry a meaning.
	ErrNotDefinable = errors.New("dispatcher: token is not definable")

	// ErrDuplicate indicates a primitive name is already registered.
	ErrDuplicate = errors.New("dispatcher: primitive already registered")
)
