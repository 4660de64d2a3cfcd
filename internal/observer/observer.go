// Package observer provides a keyed observer registry.
//
// A Registry delivers events synchronously: observers registered for the
// event's key run first, then observers registered for every key, each group
// in registration order. The first observer error stops delivery and is
// returned to the notifier.
//
// Registries are owned by a single interpreter run and are not safe for
// concurrent use.
package observer

// Observer receives events of type E.
type Observer[E any] interface {
	Observe(event E) error
}

// Func adapts an ordinary function to the Observer interface.
type Func[E any] func(event E) error

// Observe calls f(event).
func (f Func[E]) Observe(event E) error {
	return f(event)
}

// Subscription is the handle returned by registration.
type Subscription[K comparable, E any] struct {
	id       uint64
	key      K
	all      bool
	observer Observer[E]
	registry *Registry[K, E]
}

// Unsubscribe removes this subscription. Calling it more than once is a
// no-op.
func (s *Subscription[K, E]) Unsubscribe() {
	if s == nil || s.registry == nil {
		return
	}
	s.registry.Unregister(s)
}

// Active reports whether the subscription is still registered.
func (s *Subscription[K, E]) Active() bool {
	return s != nil && s.registry != nil
}

// Registry maps keys to ordered observer lists.
type Registry[K comparable, E any] struct {
	byKey  map[K][]*Subscription[K, E]
	all    []*Subscription[K, E]
	nextID uint64
}

// New creates an empty registry.
func New[K comparable, E any]() *Registry[K, E] {
	return &Registry[K, E]{
		byKey: make(map[K][]*Subscription[K, E]),
	}
}

// Register adds obs for events on key. Registering the same observer twice
// yields two deliveries per event.
func (r *Registry[K, E]) Register(key K, obs Observer[E]) *Subscription[K, E] {
	sub := r.newSubscription(obs)
	sub.key = key
	r.byKey[key] = append(r.byKey[key], sub)
	return sub
}

// RegisterAll adds obs for events on every key.
func (r *Registry[K, E]) RegisterAll(obs Observer[E]) *Subscription[K, E] {
	sub := r.newSubscription(obs)
	sub.all = true
	r.all = append(r.all, sub)
	return sub
}

func (r *Registry[K, E]) newSubscription(obs Observer[E]) *Subscription[K, E] {
	r.nextID++
	return &Subscription[K, E]{
		id:       r.nextID,
		observer: obs,
		registry: r,
	}
}

// Unregister removes sub. A nil, foreign or already removed subscription is
// ignored.
func (r *Registry[K, E]) Unregister(sub *Subscription[K, E]) {
	if sub == nil || sub.registry != r {
		return
	}
	if sub.all {
		r.all = remove(r.all, sub.id)
	} else {
		list := remove(r.byKey[sub.key], sub.id)
		if len(list) == 0 {
			delete(r.byKey, sub.key)
		} else {
			r.byKey[sub.key] = list
		}
	}
	sub.registry = nil
}

func remove[K comparable, E any](list []*Subscription[K, E], id uint64) []*Subscription[K, E] {
	for i, s := range list {
		if s.id == id {
			out := make([]*Subscription[K, E], 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	return list
}

// Notify delivers event to the observers of key, then to the observers of
// all keys. Registrations made during delivery take effect for the next
// event.
func (r *Registry[K, E]) Notify(key K, event E) error {
	keyed := r.byKey[key]
	all := r.all
	for _, sub := range keyed {
		if err := sub.observer.Observe(event); err != nil {
			return err
		}
	}
	for _, sub := range all {
		if err := sub.observer.Observe(event); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of observers that would receive an event on key.
func (r *Registry[K, E]) Len(key K) int {
	return len(r.byKey[key]) + len(r.all)
}

// HasObservers reports whether any observer is registered at all.
func (r *Registry[K, E]) HasObservers() bool {
	return len(r.byKey) > 0 || len(r.all) > 0
}
