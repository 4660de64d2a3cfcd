package dispatcher

import (
	"fmt"
	"sort"

	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/token"
)

// Registry maps token identities to the primitives installed for them.
type Registry struct {
	entries map[string]entry // identity -> entry
}

type entry struct {
	tok  token.Token
	prim primitive.Primitive
}

// NewRegistry creates an empty primitive registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
	}
}

// Register adds p under the control sequence \name.
func (r *Registry) Register(name string, p primitive.Primitive) error {
	return r.RegisterToken(token.CS(name), p)
}

// RegisterToken adds p under a definable token.
func (r *Registry) RegisterToken(tok token.Token, p primitive.Primitive) error {
	if !tok.IsDefinable() {
		return fmt.Errorf("%w: %q", ErrNotDefinable, tok.Text)
	}
	id := tok.Identity()
	if _, ok := r.entries[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	r.entries[id] = entry{tok: tok, prim: p}
	return nil
}

// Unregister removes the primitive registered for identity.
func (r *Registry) Unregister(identity string) bool {
	if _, ok := r.entries[identity]; !ok {
		return false
	}
	delete(r.entries, identity)
	return true
}

// Get returns the primitive registered for identity, or nil.
func (r *Registry) Get(identity string) primitive.Primitive {
	return r.entries[identity].prim
}

// Has returns true if a primitive is registered for identity.
func (r *Registry) Has(identity string) bool {
	_, ok := r.entries[identity]
	return ok
}

// List returns all registered identities in sorted order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered primitives.
func (r *Registry) Count() int {
	return len(r.entries)
}

// Clear removes all registered primitives.
func (r *Registry) Clear() {
	r.entries = make(map[string]entry)
}

// Install binds every registered primitive globally in ctx's code store,
// in identity order.
func (r *Registry) Install(ctx *state.Context) error {
	for _, id := range r.List() {
		e := r.entries[id]
		if err := ctx.SetCode(e.tok, e.prim, true); err != nil {
			return fmt.Errorf("install %s: %w", id, err)
		}
	}
	return nil
}
