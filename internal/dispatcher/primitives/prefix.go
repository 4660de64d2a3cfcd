package primitives

import (
	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/token"
)

// Prefix is a prefix primitive such as \global. It raises its flag for the
// primitive that follows.
type Prefix struct {
	name string
	flag primitive.Flag
}

// NewPrefix creates a prefix primitive.
func NewPrefix(name string, flag primitive.Flag) *Prefix {
	return &Prefix{name: name, flag: flag}
}

// Name implements primitive.Primitive.
func (p *Prefix) Name() string {
	return p.name
}

// Flag implements primitive.Prefix.
func (p *Prefix) Flag() primitive.Flag {
	return p.flag
}

// Execute implements primitive.Primitive.
func (p *Prefix) Execute(flags *primitive.Flags, _ *state.Context, _ token.Source, _ primitive.Output) error {
	flags.Set(p.flag)
	return nil
}

func prefixes() []primitive.Primitive {
	return []primitive.Primitive{
		NewPrefix("global", primitive.Global),
		NewPrefix("immediate", primitive.Immediate),
		NewPrefix("long", primitive.Long),
		NewPrefix("outer", primitive.Outer),
		NewPrefix("protected", primitive.Protected),
	}
}
