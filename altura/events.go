package altura

import (
	"slices"
	"sync"
)

// ListenerID identifies a registered listener so it can be removed later
type ListenerID uint64

type listener struct {
	id ListenerID
	fn func()
}

// Event is an ordered list of listeners invoked synchronously in registration order
type Event struct {
	mu        sync.Mutex
	nextID    ListenerID
	listeners []listener
}

// Add registers fn and returns its ID. A nil fn is ignored and returns 0.
func (e *Event) Add(fn func()) ListenerID {
	if fn == nil {
		return 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	e.listeners = append(e.listeners, listener{id: e.nextID, fn: fn})
	return e.nextID
}

// Remove unregisters the listener with the given ID
func (e *Event) Remove(id ListenerID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, l := range e.listeners {
		if l.id == id {
			e.listeners = slices.Delete(e.listeners, i, i+1)
			return true
		}
	}
	return false
}

// Len returns the number of registered listeners
func (e *Event) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Emit calls every listener. Listeners run outside the lock, so they may
// add or remove listeners without deadlocking.
func (e *Event) Emit() {
	e.mu.Lock()
	snapshot := slices.Clone(e.listeners)
	e.mu.Unlock()

	for _, l := range snapshot {
		l.fn()
	}
}
