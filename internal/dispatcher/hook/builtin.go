package hook

import (
	"slices"
	"time"

	"github.com/dshills/texcore/internal/state"
)

// Standard hook priorities.
const (
	PriorityAudit  = 1000 // Runs first (pre) / last (post)
	PriorityFilter = 800  // Veto before anything observable happens
	PriorityTrace  = 500
)

// TracingCommands is the count register that enables command tracing.
const TracingCommands = "tracingcommands"

// Logger is the interface for logging hooks.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// AuditHook logs every executed primitive.
type AuditHook struct {
	logger Logger
}

// NewAuditHook creates an audit hook with the given logger.
func NewAuditHook(logger Logger) *AuditHook {
	return &AuditHook{logger: logger}
}

// Name implements Hook.
func (h *AuditHook) Name() string { return "audit" }

// Priority implements Hook.
func (h *AuditHook) Priority() int { return PriorityAudit }

// PreDispatch logs the primitive being executed.
func (h *AuditHook) PreDispatch(ev *Event) bool {
	if h.logger != nil {
		h.logger.Debug("execute %s flags=%s level=%d", ev.Token, ev.Flags, ev.Context.GroupLevel())
	}
	return true
}

// PostDispatch logs the execution result.
func (h *AuditHook) PostDispatch(ev *Event) {
	if h.logger == nil {
		return
	}
	if ev.Err != nil {
		h.logger.Error("%s failed: %v", ev.Token, ev.Err)
		return
	}
	h.logger.Debug("%s done in %s", ev.Token, time.Since(ev.Started))
}

// TraceHook prints {\name} for every executed primitive while the
// tracingcommands count register is positive.
type TraceHook struct{}

// NewTraceHook creates a command tracing hook.
func NewTraceHook() *TraceHook {
	return &TraceHook{}
}

// Name implements Hook.
func (h *TraceHook) Name() string { return "trace" }

// Priority implements Hook.
func (h *TraceHook) Priority() int { return PriorityTrace }

// PreDispatch prints the trace line.
func (h *TraceHook) PreDispatch(ev *Event) bool {
	if ev.Output != nil && tracing(ev.Context) {
		ev.Output.Print("{" + ev.Token.String() + "}")
	}
	return true
}

func tracing(ctx *state.Context) bool {
	return ctx.Count().Get(TracingCommands) > 0
}

// TimingHook reports the execution time of every primitive.
type TimingHook struct {
	callback func(name string, duration time.Duration)
}

// NewTimingHook creates a timing hook.
func NewTimingHook(callback func(name string, duration time.Duration)) *TimingHook {
	return &TimingHook{callback: callback}
}

// Name implements Hook.
func (h *TimingHook) Name() string { return "timing" }

// Priority implements Hook.
func (h *TimingHook) Priority() int { return PriorityAudit }

// PostDispatch calculates and reports the duration.
func (h *TimingHook) PostDispatch(ev *Event) {
	if h.callback != nil && !ev.Started.IsZero() {
		h.callback(ev.Primitive.Name(), time.Since(ev.Started))
	}
}

// FilterHook allows or blocks primitives based on a filter function.
type FilterHook struct {
	name     string
	priority int
	only     []string
	filter   func(ev *Event) (allow bool, reason string)
}

// NewFilterHook creates a filter hook.
func NewFilterHook(name string, priority int, filter func(*Event) (bool, string)) *FilterHook {
	return &FilterHook{
		name:     name,
		priority: priority,
		filter:   filter,
	}
}

// NewDenyHook creates a filter hook that blocks the named primitives.
func NewDenyHook(names ...string) *FilterHook {
	denied := make(map[string]bool, len(names))
	for _, n := range names {
		denied[n] = true
	}
	h := NewFilterHook("deny", PriorityFilter, func(ev *Event) (bool, string) {
		if denied[ev.Primitive.Name()] {
			return false, `\` + ev.Primitive.Name() + " is disabled"
		}
		return true, ""
	})
	h.only = slices.Clone(names)
	return h
}

// Primitives implements Scoped.
func (h *FilterHook) Primitives() []string {
	return h.only
}

// Name implements Hook.
func (h *FilterHook) Name() string { return h.name }

// Priority implements Hook.
func (h *FilterHook) Priority() int { return h.priority }

// PreDispatch applies the filter.
func (h *FilterHook) PreDispatch(ev *Event) bool {
	if h.filter == nil {
		return true
	}
	allow, reason := h.filter(ev)
	if !allow {
		ev.Reason = reason
	}
	return allow
}
