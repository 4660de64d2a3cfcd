package hook

import (
	"slices"
	"sort"
)

// entry is a registered hook with the primitives it is limited to.
type entry[H Hook] struct {
	hook H
	only map[string]bool
	seq  int
}

func (e entry[H]) applies(name string) bool {
	return e.only == nil || e.only[name]
}

// Manager runs dispatch hooks ordered by priority. Hooks of equal priority
// run in registration order. A hook may be limited to some primitives, by
// registering it with RegisterPreFor/RegisterPostFor or by implementing
// Scoped; the manager then skips it for every other primitive.
type Manager struct {
	pre  []entry[PreDispatchHook]
	post []entry[PostDispatchHook]
	seq  int
}

// NewManager creates a new hook manager.
func NewManager() *Manager {
	return &Manager{}
}

func scopeOf(h Hook, names []string) map[string]bool {
	if len(names) == 0 {
		if s, ok := h.(Scoped); ok {
			names = s.Primitives()
		}
	}
	if len(names) == 0 {
		return nil
	}
	only := make(map[string]bool, len(names))
	for _, n := range names {
		only[n] = true
	}
	return only
}

// add replaces the entry named like h, keeping its position among equal
// priorities, or appends a new one. less orders the list.
func add[H Hook](list []entry[H], e entry[H], less func(a, b H) bool) []entry[H] {
	i := slices.IndexFunc(list, func(x entry[H]) bool { return x.hook.Name() == e.hook.Name() })
	if i >= 0 {
		e.seq = list[i].seq
		list[i] = e
	} else {
		list = append(list, e)
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.hook.Priority() != b.hook.Priority() {
			return less(a.hook, b.hook)
		}
		return a.seq < b.seq
	})
	return list
}

func remove[H Hook](list []entry[H], name string) ([]entry[H], bool) {
	i := slices.IndexFunc(list, func(x entry[H]) bool { return x.hook.Name() == name })
	if i < 0 {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}

func names[H Hook](list []entry[H], primitive string) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		if primitive == "" || e.applies(primitive) {
			out = append(out, e.hook.Name())
		}
	}
	return out
}

// RegisterPre adds a pre-dispatch hook, replacing one with the same name.
// Higher priorities run first.
func (m *Manager) RegisterPre(h PreDispatchHook) {
	m.RegisterPreFor(h)
}

// RegisterPreFor adds a pre-dispatch hook that only runs for the named
// primitives. Without names it runs for the primitives h declares as Scoped,
// or for all of them.
func (m *Manager) RegisterPreFor(h PreDispatchHook, primitives ...string) {
	m.seq++
	e := entry[PreDispatchHook]{hook: h, only: scopeOf(h, primitives), seq: m.seq}
	m.pre = add(m.pre, e, func(a, b PreDispatchHook) bool { return a.Priority() > b.Priority() })
}

// RegisterPost adds a post-dispatch hook, replacing one with the same name.
// Higher priorities run last.
func (m *Manager) RegisterPost(h PostDispatchHook) {
	m.RegisterPostFor(h)
}

// RegisterPostFor is RegisterPreFor for post-dispatch hooks.
func (m *Manager) RegisterPostFor(h PostDispatchHook, primitives ...string) {
	m.seq++
	e := entry[PostDispatchHook]{hook: h, only: scopeOf(h, primitives), seq: m.seq}
	m.post = add(m.post, e, func(a, b PostDispatchHook) bool { return a.Priority() < b.Priority() })
}

// Register adds h to every list whose interface it implements.
func (m *Manager) Register(h Hook) {
	if pre, ok := h.(PreDispatchHook); ok {
		m.RegisterPre(pre)
	}
	if post, ok := h.(PostDispatchHook); ok {
		m.RegisterPost(post)
	}
}

// UnregisterPre removes a pre-dispatch hook by name.
func (m *Manager) UnregisterPre(name string) bool {
	var ok bool
	m.pre, ok = remove(m.pre, name)
	return ok
}

// UnregisterPost removes a post-dispatch hook by name.
func (m *Manager) UnregisterPost(name string) bool {
	var ok bool
	m.post, ok = remove(m.post, name)
	return ok
}

// Unregister removes a hook by name from both lists.
func (m *Manager) Unregister(name string) bool {
	pre := m.UnregisterPre(name)
	post := m.UnregisterPost(name)
	return pre || post
}

// RunPreDispatch runs the pre-dispatch hooks that apply to ev.Primitive.
// It returns false as soon as one cancels the execution.
func (m *Manager) RunPreDispatch(ev *Event) bool {
	name := ev.Primitive.Name()
	for _, e := range slices.Clone(m.pre) {
		if e.applies(name) && !e.hook.PreDispatch(ev) {
			return false
		}
	}
	return true
}

// RunPostDispatch runs the post-dispatch hooks that apply to ev.Primitive.
// Higher priority hooks see the error left by lower ones.
func (m *Manager) RunPostDispatch(ev *Event) {
	name := ev.Primitive.Name()
	for _, e := range slices.Clone(m.post) {
		if e.applies(name) {
			e.hook.PostDispatch(ev)
		}
	}
}

// PreHookCount returns the number of registered pre-dispatch hooks.
func (m *Manager) PreHookCount() int {
	return len(m.pre)
}

// PostHookCount returns the number of registered post-dispatch hooks.
func (m *Manager) PostHookCount() int {
	return len(m.post)
}

// PreHookNames returns the names of all pre-dispatch hooks in run order.
func (m *Manager) PreHookNames() []string {
	return names(m.pre, "")
}

// PostHookNames returns the names of all post-dispatch hooks in run order.
func (m *Manager) PostHookNames() []string {
	return names(m.post, "")
}

// PreHooksFor returns the names of the pre-dispatch hooks that run for the
// named primitive, in run order.
func (m *Manager) PreHooksFor(primitive string) []string {
	return names(m.pre, primitive)
}

// PostHooksFor is PreHooksFor for post-dispatch hooks.
func (m *Manager) PostHooksFor(primitive string) []string {
	return names(m.post, primitive)
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.pre = nil
	m.post = nil
}
