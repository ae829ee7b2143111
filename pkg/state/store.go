// Package state provides explicit observable value containers.
//
// A Store holds a single value and notifies subscribers when it changes.
// Unlike implicit reactive systems there is no dependency tracking:
// subscription is an explicit call, and publishers decide when to notify.
package state

import "sync"

// Store is an observable value container.
// It is safe for concurrent use; notification runs outside the lock.
type Store[T any] struct {
	mu    sync.RWMutex
	value T

	subMu  sync.Mutex
	subs   map[uint64]func(T)
	nextID uint64

	// equal suppresses notification when the new value matches the old.
	// Nil means every Set notifies.
	equal func(T, T) bool
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithEqual sets the equality function used to skip redundant
// notifications.
func WithEqual[T any](eq func(T, T) bool) Option[T] {
	return func(s *Store[T]) {
		s.equal = eq
	}
}

// New creates a store with the given initial value.
func New[T any](initial T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		value: initial,
		subs:  make(map[uint64]func(T)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies subscribers.
// If an equality function is configured and reports the values equal,
// the store is left untouched and no notification is sent.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, v) {
		s.mu.Unlock()
		return
	}
	s.value = v
	s.mu.Unlock()
	s.notify(v)
}

// Subscribe registers fn to be called after every value change.
// The returned function removes the subscription.
func (s *Store[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// notify calls subscribers with a copied list so that subscribing or
// unsubscribing from inside a callback cannot deadlock.
func (s *Store[T]) notify(v T) {
	s.subMu.Lock()
	fns := make([]func(T), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
