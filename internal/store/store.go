// Package store holds the dashboard state container: the fetched books and
// genres plus the current filter, updated through typed actions.
//
// A Store is created once and passed to the components that need it.
// Dispatch is safe for concurrent use; debounce timers and fetch commands
// dispatch from their own goroutines.
package store

import (
	"log/slog"
	"sync"
)

// Listener receives the state after every dispatch that changed it.
type Listener func(State)

// Store is the state container.
type Store struct {
	logger *slog.Logger

	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	order     []int
	nextID    int
}

// New creates an empty store. A nil logger discards debug output.
func New(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		logger:    logger,
		listeners: make(map[int]Listener),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies a to every slice reducer and notifies listeners if the
// state changed. It reports whether it did; a stale fetch result does not.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	before := s.state
	after := reduce(before, a)
	if !changed(before, after) {
		s.mu.Unlock()
		s.logger.Debug("action ignored", "action", Name(a))
		return false
	}
	s.state = after
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	s.logger.Debug("action applied", "action", Name(a))
	for _, fn := range listeners {
		fn(after)
	}
	return true
}

// Subscribe registers fn and returns a function that removes it.
// Listeners run in registration order, outside the store lock.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// snapshotListeners must be called with s.mu held.
func (s *Store) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.listeners[id])
	}
	return out
}
