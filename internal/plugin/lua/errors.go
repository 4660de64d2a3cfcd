package lua

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNoInvocation is raised when a script calls an interpreter function
	// outside of a running primitive.
	ErrNoInvocation = errors.New("lua: no primitive is running")

	// ErrResultTable is returned when a primitive returns a table with named
	// keys, which has no reading as input.
	ErrResultTable = errors.New("lua: a table with named keys cannot be read as input")
)
