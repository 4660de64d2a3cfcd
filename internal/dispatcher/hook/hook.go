package hook

import (
	"time"

	"github.com/dshills/texcore/internal/dispatcher/primitive"
	"github.com/dshills/texcore/internal/state"
	"github.com/dshills/texcore/internal/token"
)

// Event describes the dispatch of one primitive.
type Event struct {
	// Token is the token whose meaning is being executed.
	Token token.Token

	// Primitive is the meaning of Token.
	Primitive primitive.Primitive

	// Context is the interpreter context of the run.
	Context *state.Context

	// Flags are the prefix flags in effect before execution.
	Flags *primitive.Flags

	// Output is the run's message sink.
	Output primitive.Output

	// Started is set by the dispatcher before pre-dispatch hooks run.
	Started time.Time

	// Reason is set by a pre-dispatch hook that cancels the execution.
	Reason string

	// Err is the execution result. It is only meaningful to post-dispatch
	// hooks; they may replace it.
	Err error
}

// Hook is the base interface for all dispatch hooks.
type Hook interface {
	// Name returns a unique identifier for this hook.
	Name() string

	// Priority returns the hook priority.
	// Higher values run first for pre-hooks, last for post-hooks.
	Priority() int
}

// Scoped is implemented by hooks that only apply to some primitives. An
// empty list applies to all of them.
type Scoped interface {
	Primitives() []string
}

// PreDispatchHook is called before a primitive is executed.
type PreDispatchHook interface {
	Hook

	// PreDispatch returns false to cancel the execution.
	PreDispatch(ev *Event) bool
}

// PostDispatchHook is called after a primitive is executed.
type PostDispatchHook interface {
	Hook

	// PostDispatch may inspect or replace ev.Err.
	PostDispatch(ev *Event)
}

// PreDispatchFunc wraps a function as a PreDispatchHook.
type PreDispatchFunc struct {
	name     string
	priority int
	fn       func(ev *Event) bool
}

// NewPreDispatchFunc creates a new PreDispatchFunc hook.
func NewPreDispatchFunc(name string, priority int, fn func(ev *Event) bool) *PreDispatchFunc {
	return &PreDispatchFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PreDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PreDispatchFunc) Priority() int { return f.priority }

// PreDispatch implements PreDispatchHook.
func (f *PreDispatchFunc) PreDispatch(ev *Event) bool {
	if f.fn == nil {
		return true
	}
	return f.fn(ev)
}

// PostDispatchFunc wraps a function as a PostDispatchHook.
type PostDispatchFunc struct {
	name     string
	priority int
	fn       func(ev *Event)
}

// NewPostDispatchFunc creates a new PostDispatchFunc hook.
func NewPostDispatchFunc(name string, priority int, fn func(ev *Event)) *PostDispatchFunc {
	return &PostDispatchFunc{
		name:     name,
		priority: priority,
		fn:       fn,
	}
}

// Name implements Hook.
func (f *PostDispatchFunc) Name() string { return f.name }

// Priority implements Hook.
func (f *PostDispatchFunc) Priority() int { return f.priority }

// PostDispatch implements PostDispatchHook.
func (f *PostDispatchFunc) PostDispatch(ev *Event) {
	if f.fn != nil {
		f.fn(ev)
	}
}

// CombinedHook implements both PreDispatchHook and PostDispatchHook.
type CombinedHook interface {
	PreDispatchHook
	PostDispatchHook
}
