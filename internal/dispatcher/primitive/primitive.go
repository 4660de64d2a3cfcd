// Package primitive defines the contract between the dispatcher and the
// primitives it executes.
//
// A primitive is the code bound to a control sequence. Besides Execute it may
// implement capability interfaces that other primitives query: \advance
// looks for Advanceable, \the for Theable, and so on.
package primitive

import (
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/token"
)

// Primitive is an executable code. Implementations must be comparable, since
// they are stored as state.Code values.
type Primitive interface {
	// Name returns the primitive's control sequence name without the escape
	// character.
	Name() string

	// Execute runs the primitive. It reads its arguments from src and
	// consumes the flags it understands.
	Execute(flags *Flags, ctx *state.Context, src token.Source, out Output) error
}

// Prefix is implemented by prefix primitives such as \global. The dispatcher
// does not report unconsumed flags after a prefix.
type Prefix interface {
	Primitive

	// Flag returns the flag the prefix raises.
	Flag() Flag
}

// Assignable is implemented by primitives that denote an assignment.
// Execute of such a primitive usually just calls Assign.
type Assignable interface {
	Assign(flags *Flags, ctx *state.Context, src token.Source) error
}

// Advanceable is implemented by primitives usable after \advance.
type Advanceable interface {
	Advance(flags *Flags, ctx *state.Context, src token.Source) error
}

// Multiplyable is implemented by primitives usable after \multiply.
type Multiplyable interface {
	Multiply(flags *Flags, ctx *state.Context, src token.Source) error
}

// Divideable is implemented by primitives usable after \divide.
type Divideable interface {
	Divide(flags *Flags, ctx *state.Context, src token.Source) error
}

// Theable is implemented by primitives usable after \the.
type Theable interface {
	The(ctx *state.Context, src token.Source) (token.Tokens, error)
}

// CountConvertible is implemented by primitives denoting an integer.
type CountConvertible interface {
	ConvertCount(ctx *state.Context, src token.Source) (int64, error)
}

// DimenConvertible is implemented by primitives denoting a dimension.
type DimenConvertible interface {
	ConvertDimen(ctx *state.Context, src token.Source) (state.Dimen, error)
}

// ExecuteFunc is the signature of Primitive.Execute.
type ExecuteFunc func(flags *Flags, ctx *state.Context, src token.Source, out Output) error

// Func wraps a function as a Primitive. Use a *Func so that codes compare by
// identity.
type Func struct {
	name string
	fn   ExecuteFunc
}

// NewFunc creates a primitive named name.
func NewFunc(name string, fn ExecuteFunc) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Primitive.
func (f *Func) Name() string {
	return f.name
}

// Execute implements Primitive.
func (f *Func) Execute(flags *Flags, ctx *state.Context, src token.Source, out Output) error {
	return f.fn(flags, ctx, src, out)
}
