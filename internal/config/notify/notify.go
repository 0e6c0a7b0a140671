// Package notify delivers configuration change events to subscribers.
package notify

import (
	"strings"
	"sync"
)

// ChangeType is the kind of configuration change.
type ChangeType int

const (
	// ChangeSet means a value was added or updated.
	ChangeSet ChangeType = iota
	// ChangeDelete means a value was removed.
	ChangeDelete
	// ChangeReload means a whole layer was re-read from its source.
	ChangeReload
)

func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one configuration change. Path is empty for reloads.
type Change struct {
	Path     string
	Type     ChangeType
	OldValue any
	NewValue any

	// Source is the name of the layer that changed.
	Source string
}

// Observer receives changes.
type Observer func(Change)

// Subscription is returned by Subscribe and SubscribePath.
type Subscription struct {
	id uint64
	n  *Notifier
}

// Unsubscribe stops delivery to the observer. It is safe to call twice.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.n != nil {
		s.n.remove(s.id)
	}
}

type entry struct {
	path     string
	observer Observer
}

// Notifier fans changes out to observers synchronously, on the caller's
// goroutine, outside its own lock.
type Notifier struct {
	mu      sync.RWMutex
	entries map[uint64]entry
	nextID  uint64
	closed  bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{entries: make(map[uint64]entry)}
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(o Observer) *Subscription {
	return n.SubscribePath("", o)
}

// SubscribePath registers an observer for path and everything below it.
// "render" receives changes to "render.highlightStyle". Reloads are
// delivered to every observer.
func (n *Notifier) SubscribePath(path string, o Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.entries[id] = entry{path: path, observer: o}
	return &Subscription{id: id, n: n}
}

// Notify delivers c to the matching observers. It does nothing after Close.
func (n *Notifier) Notify(c Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	var targets []Observer
	for _, e := range n.entries {
		if c.Type == ChangeReload || matches(e.path, c.Path) {
			targets = append(targets, e.observer)
		}
	}
	n.mu.RUnlock()

	for _, o := range targets {
		o(c)
	}
}

// NotifySet reports an updated value.
func (n *Notifier) NotifySet(path string, oldValue, newValue any, source string) {
	n.Notify(Change{Path: path, Type: ChangeSet, OldValue: oldValue, NewValue: newValue, Source: source})
}

// NotifyDelete reports a removed value.
func (n *Notifier) NotifyDelete(path string, oldValue any, source string) {
	n.Notify(Change{Path: path, Type: ChangeDelete, OldValue: oldValue, Source: source})
}

// NotifyReload reports that the named layer was reloaded.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{Type: ChangeReload, Source: source})
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.entries)
}

// Close drops all observers.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.entries = make(map[uint64]entry)
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.entries, id)
}

func matches(sub, path string) bool {
	if sub == "" || sub == path {
		return true
	}
	return strings.HasPrefix(path, sub+".")
}
