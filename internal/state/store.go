// Package state holds the authoritative HomeState snapshot mirrored from the
// remote server and fans out every change to subscribers.
package state

import (
	"sort"
	"sync"

	"myhouse/internal/models"
)

// Change describes one applied mutation. Event is nil for a full replace.
type Change struct {
	Prev  models.HomeState
	Next  models.HomeState
	Event *models.StateUpdateEvent
}

// Subscriber is called synchronously after each mutation.
type Subscriber func(Change)

// Store is safe for concurrent readers. Writers are serialized and each
// write finishes notifying subscribers before the next write starts.
type Store struct {
	writeMu sync.Mutex // serializes mutate+notify

	mu   sync.RWMutex
	snap models.HomeState
	subs map[int]Subscriber
	next int
}

// NewStore returns a store holding the default snapshot.
func NewStore() *Store {
	return &Store{
		snap: models.DefaultHomeState(),
		subs: make(map[int]Subscriber),
	}
}

// Current returns the latest snapshot.
func (s *Store) Current() models.HomeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace overwrites the whole snapshot.
func (s *Store) Replace(full models.HomeState) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.swap(full)
	s.notify(Change{Prev: prev, Next: full})
}

// ApplyUpdate changes the single field named by ev. Unknown event types
// leave the snapshot untouched and report false.
func (s *Store) ApplyUpdate(ev models.StateUpdateEvent) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	next, ok := apply(s.Current(), ev)
	if !ok {
		return false
	}
	prev := s.swap(next)
	s.notify(Change{Prev: prev, Next: next, Event: &ev})
	return true
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) swap(next models.HomeState) models.HomeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.snap
	s.snap = next
	return prev
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	subs := make([]Subscriber, 0, len(ids))
	for _, id := range ids {
		subs = append(subs, s.subs[id])
	}
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(c)
	}
}

// apply returns st with ev's field replaced. Temperature is stored verbatim.
func apply(st models.HomeState, ev models.StateUpdateEvent) (models.HomeState, bool) {
	switch ev.Type {
	case models.EventTemperature:
		st.Temperature = ev.Value
	case models.EventLight:
		st.Light = ev.Value == models.TrueToken
	case models.EventDoor:
		st.Door = ev.Value == models.TrueToken
	case models.EventHeat:
		st.Heat = ev.Value == models.TrueToken
	default:
		return st, false
	}
	return st, true
}
