// Package notify delivers configuration reload notifications.
//
// Reloads originate on the file watcher goroutine, so the Notifier is safe
// for concurrent use. Observers run synchronously on the notifying
// goroutine; a panicking observer does not prevent delivery to the rest.
package notify

import (
	"sort"
	"sync"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeReload indicates the whole configuration was replaced.
	ChangeReload ChangeType = iota

	// ChangeError indicates a reload was attempted and failed.
	ChangeError
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeReload:
		return "reload"
	case ChangeError:
		return "error"
	default:
		return "unknown"
	}
}

// Change describes one reload attempt.
type Change struct {
	// Type is the type of change.
	Type ChangeType

	// Source identifies the file that triggered the change.
	Source string

	// Err is the load failure for ChangeError.
	Err error
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages reload subscriptions.
type Notifier struct {
	mu        sync.RWMutex
	observers map[uint64]Observer
	nextID    uint64
	closed    bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{observers: make(map[uint64]Observer)}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.observers[n.nextID] = observer
	return &Subscription{id: n.nextID, notifier: n}
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

// Notify delivers change to every observer in subscription order.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(n.observers))
	for id := range n.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	observers := make([]Observer, len(ids))
	for i, id := range ids {
		observers[i] = n.observers[id]
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		safeCall(obs, change)
	}
}

func safeCall(obs Observer, change Change) {
	defer func() {
		_ = recover()
	}()
	obs(change)
}

// SubscriberCount returns the number of active subscriptions.
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.observers)
}

// Close stops delivery. Later Notify calls are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.observers = make(map[uint64]Observer)
}
