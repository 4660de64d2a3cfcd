package state

import (
	"sort"

	"github.com/dshills/texcore/internal/observer"
)

// Category names a register store.
type Category string

// Register store categories.
const (
	CategoryCount       Category = "count"
	CategoryDimen       Category = "dimen"
	CategoryToks        Category = "toks"
	CategoryCode        Category = "code"
	CategoryInteraction Category = "interaction"
)

// Change is the event delivered to store observers. Old is the category
// default when WasBound is false; New is the default when IsBound is false.
type Change[V any] struct {
	Category Category
	Key      string
	Old      V
	New      V
	WasBound bool
	IsBound  bool
}

// Observer receives changes of one store.
type Observer[V any] = observer.Observer[Change[V]]

// ObserverFunc adapts a function to an Observer.
type ObserverFunc[V any] = observer.Func[Change[V]]

// Subscription is the handle of a store observer.
type Subscription[V any] = observer.Subscription[string, Change[V]]

// Store is a typed, observable, group-scoped mapping from names to values.
type Store[V any] struct {
	category  Category
	values    map[string]V
	def       V
	equal     func(a, b V) bool
	observers *observer.Registry[string, Change[V]]
	groups    *groupStack
}

func newStore[V any](category Category, def V, equal func(a, b V) bool, groups *groupStack) *Store[V] {
	return &Store[V]{
		category:  category,
		values:    make(map[string]V),
		def:       def,
		equal:     equal,
		observers: observer.New[string, Change[V]](),
		groups:    groups,
	}
}

// Category returns the store category.
func (s *Store[V]) Category() Category {
	return s.category
}

// Default returns the value read for unbound keys.
func (s *Store[V]) Default() V {
	return s.def
}

// Get returns the value of name, or the category default.
func (s *Store[V]) Get(name string) V {
	if v, ok := s.values[name]; ok {
		return v
	}
	return s.def
}

// Lookup returns the value of name and whether it is bound.
func (s *Store[V]) Lookup(name string) (V, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set binds name to v. A local assignment is undone when the current group
// ends; a global one survives every open group.
func (s *Store[V]) Set(name string, v V, global bool) error {
	s.scope(name, global)
	return s.notify(s.write(name, v, true))
}

// Unset removes the binding of name with the same scoping as Set.
func (s *Store[V]) Unset(name string, global bool) error {
	s.scope(name, global)
	return s.notify(s.write(name, s.def, false))
}

// Keys returns the bound names, sorted.
func (s *Store[V]) Keys() []string {
	out := make([]string, 0, len(s.values))
	for k := range s.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Observe registers obs for changes of name.
func (s *Store[V]) Observe(name string, obs Observer[V]) *Subscription[V] {
	return s.observers.Register(name, obs)
}

// ObserveAll registers obs for changes of every name in the store.
func (s *Store[V]) ObserveAll(obs Observer[V]) *Subscription[V] {
	return s.observers.RegisterAll(obs)
}

// Unobserve removes a subscription. Unknown subscriptions are ignored.
func (s *Store[V]) Unobserve(sub *Subscription[V]) {
	s.observers.Unregister(sub)
}

func (s *Store[V]) scope(name string, global bool) {
	k := undoKey{category: s.category, key: name}
	if global {
		s.groups.purge(k)
		return
	}
	if !s.groups.saves(k) {
		return
	}
	old, bound := s.values[name]
	s.groups.record(k, func() func() error {
		return s.restore(name, old, bound)
	})
}

// restore writes a saved binding back without logging and returns the
// pending notification, or nil when nothing changed.
func (s *Store[V]) restore(name string, v V, bound bool) func() error {
	if !bound {
		v = s.def
	}
	ch, changed := s.write(name, v, bound)
	if !changed {
		return nil
	}
	return func() error {
		return s.observers.Notify(name, ch)
	}
}

func (s *Store[V]) write(name string, v V, bound bool) (Change[V], bool) {
	old, wasBound := s.values[name]
	if !wasBound {
		old = s.def
	}
	if bound {
		s.values[name] = v
	} else {
		delete(s.values, name)
		v = s.def
	}
	ch := Change[V]{
		Category: s.category,
		Key:      name,
		Old:      old,
		New:      v,
		WasBound: wasBound,
		IsBound:  bound,
	}
	return ch, wasBound != bound || !s.equal(old, v)
}

func (s *Store[V]) notify(ch Change[V], changed bool) error {
	if !changed {
		return nil
	}
	return s.observers.Notify(ch.Key, ch)
}
