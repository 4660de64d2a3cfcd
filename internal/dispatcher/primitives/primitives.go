// Package primitives implements the built-in primitives: prefixes,
// registers and register arithmetic, grouping, interaction modes and
// diagnostics.
package primitives

import "github.com/dshills/texcore/internal/dispatcher/primitive"

// Registrar receives primitives. *dispatcher.Registry satisfies it.
type Registrar interface {
	Register(name string, p primitive.Primitive) error
}

// Builtins returns fresh instances of the built-in primitives.
func Builtins() []primitive.Primitive {
	var out []primitive.Primitive
	out = append(out, prefixes()...)
	out = append(out, NewCount(), NewDimen(), NewToks())
	out = append(out, arithmetic()...)
	out = append(out, groups()...)
	out = append(out, interaction()...)
	out = append(out, info()...)
	out = append(out, &Let{}, &Mag{})
	return out
}

// Register adds the built-in primitives to r.
func Register(r Registrar) error {
	for _, p := range Builtins() {
		if err := r.Register(p.Name(), p); err != nil {
			return err
		}
	}
	return nil
}
