// Package state implements the interpreter context: typed register stores
// scoped by a stack of groups.
//
// Every store shares the context's group stack. A local assignment saves the
// previous binding in the innermost open group the first time the key is
// written there; ending the group restores it. A global assignment writes
// through and discards the saved bindings of that key in every open group,
// so it survives them all.
//
// Stores notify observers synchronously whenever a binding changes,
// including restorations performed by EndGroup. A Context belongs to one
// interpreter run and is never shared between goroutines; nothing in this
// package locks.
package state

import (
	"github.com/google/uuid"

	"github.com/dshills/texcore/internal/extension"
	"github.com/dshills/texcore/internal/token"
)

// Code is the meaning bound to a definable token. Implementations must be
// comparable; the code store detects changes with ==.
type Code interface {
	Name() string
}

// interactionKey is the single key of the interaction store.
const interactionKey = "interaction"

// Context is the root of interpreter state for one run.
type Context struct {
	id     string
	groups *groupStack

	count       *Store[int64]
	dimen       *Store[Dimen]
	toks        *Store[token.Tokens]
	code        *Store[Code]
	interaction *Store[Interaction]

	extensions *extension.Registry
	released   token.Tokens
}

// Option configures a Context.
type Option func(*Context)

// WithID sets the run id instead of a random one.
func WithID(id string) Option {
	return func(c *Context) {
		c.id = id
	}
}

// WithExtensions sets the extension registry.
func WithExtensions(r *extension.Registry) Option {
	return func(c *Context) {
		c.extensions = r
	}
}

// New creates a context at group level 0 in error-stop mode.
func New(opts ...Option) *Context {
	g := newGroupStack()
	c := &Context{
		groups:      g,
		count:       newStore[int64](CategoryCount, 0, equal[int64], g),
		dimen:       newStore[Dimen](CategoryDimen, 0, equal[Dimen], g),
		toks:        newStore[token.Tokens](CategoryToks, nil, token.Tokens.Equal, g),
		code:        newStore[Code](CategoryCode, nil, equal[Code], g),
		interaction: newStore[Interaction](CategoryInteraction, ErrorStopMode, equal[Interaction], g),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.id == "" {
		c.id = uuid.NewString()
	}
	if c.extensions == nil {
		c.extensions = extension.NewRegistry(nil)
	}
	return c
}

func equal[V comparable](a, b V) bool {
	return a == b
}

// ID returns the run id.
func (c *Context) ID() string {
	return c.id
}

// Count returns the count register store.
func (c *Context) Count() *Store[int64] {
	return c.count
}

// Dimen returns the dimension register store.
func (c *Context) Dimen() *Store[Dimen] {
	return c.dimen
}

// Toks returns the token list register store.
func (c *Context) Toks() *Store[token.Tokens] {
	return c.toks
}

// Codes returns the store binding token identities to codes.
func (c *Context) Codes() *Store[Code] {
	return c.code
}

// Code returns the meaning of tok, or nil when it is undefined.
func (c *Context) Code(tok token.Token) Code {
	return c.code.Get(tok.Identity())
}

// SetCode binds tok to code.
func (c *Context) SetCode(tok token.Token, code Code, global bool) error {
	return c.code.Set(tok.Identity(), code, global)
}

// Interaction returns the current interaction mode.
func (c *Context) Interaction() Interaction {
	return c.interaction.Get(interactionKey)
}

// SetInteraction changes the interaction mode.
func (c *Context) SetInteraction(mode Interaction, global bool) error {
	return c.interaction.Set(interactionKey, mode, global)
}

// ObserveInteraction registers obs for interaction mode changes.
func (c *Context) ObserveInteraction(obs Observer[Interaction]) *Subscription[Interaction] {
	return c.interaction.Observe(interactionKey, obs)
}

// BeginGroup opens a simple group.
func (c *Context) BeginGroup() {
	c.groups.push(SimpleGroup)
}

// BeginGroupOf opens a group of the given type.
func (c *Context) BeginGroupOf(typ GroupType) {
	c.groups.push(typ)
}

// EndGroup closes the innermost group and restores every binding it saved.
// At group level 0 it fails with a usage error and changes nothing.
//
// All bindings are restored before any observer runs; observers are then
// notified in restoration order and the first observer error is returned.
// Tokens saved with AfterGroup become available from TakeAfterGroup.
func (c *Context) EndGroup() error {
	f, pending, err := c.groups.pop()
	if err != nil {
		return err
	}
	c.released = append(c.released, f.after...)
	for _, notify := range pending {
		if err := notify(); err != nil {
			return err
		}
	}
	return nil
}

// GroupLevel returns the number of open groups.
func (c *Context) GroupLevel() int {
	return c.groups.level()
}

// GroupType returns the type of the innermost group.
func (c *Context) GroupType() GroupType {
	return c.groups.top().typ
}

// GroupTypes returns the types of the open groups, innermost first,
// excluding the bottom level.
func (c *Context) GroupTypes() []GroupType {
	frames := c.groups.frames
	out := make([]GroupType, 0, len(frames)-1)
	for i := len(frames) - 1; i > 0; i-- {
		out = append(out, frames[i].typ)
	}
	return out
}

// AfterGroup saves tok to be reinserted when the innermost group ends.
// Tokens saved at level 0 are never released.
func (c *Context) AfterGroup(tok token.Token) {
	f := c.groups.top()
	f.after = append(f.after, tok)
}

// TakeAfterGroup returns and clears the tokens released by EndGroup.
func (c *Context) TakeAfterGroup() token.Tokens {
	out := c.released
	c.released = nil
	return out
}

// Extensions returns the extension registry.
func (c *Context) Extensions() *extension.Registry {
	return c.extensions
}

// Extension returns the extension for a capability id.
func (c *Context) Extension(id string) (any, error) {
	return c.extensions.Get(id)
}
