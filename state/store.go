// Package state holds the live entity-state store that feeds the deck:
// a mapping from entity identifier to its current state, with snapshot
// fanout to subscribers on every change.
package state

import (
	"sync"

	"github.com/google/uuid"

	"github.com/tabdeck/tabdeck/core"
)

// Listener receives an immutable snapshot after every store mutation.
type Listener func(core.Snapshot)

// Store is the host state source. Mutations go through Set/SetMany; the
// deck and other consumers only ever see snapshot copies.
type Store struct {
	mu       sync.RWMutex
	entities map[string]core.Entity
	subs     map[string]Listener
}

func NewStore() *Store {
	return &Store{
		entities: make(map[string]core.Entity),
		subs:     make(map[string]Listener),
	}
}

// Set stores one entity and fans the new snapshot out.
func (s *Store) Set(id string, e core.Entity) {
	s.mu.Lock()
	s.entities[id] = e
	snap, listeners := s.fanoutLocked()
	s.mu.Unlock()
	notify(snap, listeners)
}

// SetState is a convenience for state-only updates; existing attributes
// are preserved.
func (s *Store) SetState(id, st string) {
	s.mu.Lock()
	e := s.entities[id]
	e.State = st
	s.entities[id] = e
	snap, listeners := s.fanoutLocked()
	s.mu.Unlock()
	notify(snap, listeners)
}

// SetMany applies a batch of entities in one fanout.
func (s *Store) SetMany(entities map[string]core.Entity) {
	s.mu.Lock()
	for id, e := range entities {
		s.entities[id] = e
	}
	snap, listeners := s.fanoutLocked()
	s.mu.Unlock()
	notify(snap, listeners)
}

// Get returns one entity.
func (s *Store) Get(id string) (core.Entity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[id]
	return e, ok
}

// Snapshot returns a copy of the current state mapping.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe registers a listener and returns its id for Unsubscribe.
func (s *Store) Subscribe(fn Listener) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.subs[id] = fn
	s.mu.Unlock()
	return id
}

func (s *Store) Unsubscribe(id string) {
	s.mu.Lock()
	delete(s.subs, id)
	s.mu.Unlock()
}

func (s *Store) snapshotLocked() core.Snapshot {
	snap := make(core.Snapshot, len(s.entities))
	for id, e := range s.entities {
		snap[id] = e
	}
	return snap
}

func (s *Store) fanoutLocked() (core.Snapshot, []Listener) {
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	return s.snapshotLocked(), listeners
}

func notify(snap core.Snapshot, listeners []Listener) {
	for _, fn := range listeners {
		if fn == nil {
			continue
		}
		fn(snap)
	}
}
