package service

import (
	"sync"

	"github.com/presence-analyzer/dashboard/internal/core/domain"
)

// Store holds the DashboardState of one session. Every mutation goes through
// Update, which serialises writers and hands subscribers the resulting copy.
type Store struct {
	mu      sync.Mutex
	state   domain.DashboardState
	subs    []subscriber
	nextSub uint64
}

type subscriber struct {
	id uint64
	fn func(domain.DashboardState)
}

// NewStore returns a store seeded with initial.
func NewStore(initial domain.DashboardState) *Store {
	return &Store{state: initial}
}

// Update runs fn against the state. When fn reports a change, the version is
// bumped and subscribers are called with the new state, in the order they
// subscribed. Subscribers run under the store lock and must not block or
// call back into the store.
func (s *Store) Update(fn func(st *domain.DashboardState) bool) (domain.DashboardState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	if !fn(&next) {
		return s.state, false
	}
	next.Version = s.state.Version + 1
	s.state = next

	for _, sub := range s.subs {
		sub.fn(next)
	}
	return next, true
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.DashboardState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn for every later state change.
func (s *Store) Subscribe(fn func(domain.DashboardState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
