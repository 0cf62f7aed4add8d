// Package store provides a reducer-driven state container that satisfies
// core.Store.
//
// A Store holds one state value of type S. Dispatching an action folds it
// through the reducers in order and then notifies subscribers. Actions of
// type Thunk[S] are not reduced; they are called with the store's dispatch
// and getState functions so they can dispatch any number of actions.
//
//	counter := store.New(0, func(n int, action any) int {
//		if action == "inc" {
//			return n + 1
//		}
//		return n
//	})
//	counter.Dispatch("inc")
package store

import (
	"slices"
	"sync"

	"github.com/go-drift/fiber/pkg/core"
)

// Reducer returns the state that results from applying action to state.
// Reducers must not mutate state in place when components select parts of
// it by reference.
type Reducer[S any] func(state S, action any) S

// Thunk is an action that runs instead of being reduced.
type Thunk[S any] func(dispatch func(action any), getState func() S)

// Store is a reducer-driven state container. It is safe for concurrent use;
// subscribers run on the dispatching goroutine after the state is updated.
type Store[S any] struct {
	mu          sync.RWMutex
	state       S
	reducers    []Reducer[S]
	subscribers []subscriber
	nextID      int
}

type subscriber struct {
	id int
	fn func()
}

var _ core.Store = (*Store[int])(nil)

// New creates a store holding initial and reducing actions through reducers.
func New[S any](initial S, reducers ...Reducer[S]) *Store[S] {
	return &Store[S]{state: initial, reducers: slices.Clone(reducers)}
}

// GetState returns the current state.
func (s *Store[S]) GetState() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// State returns the current state as any.
func (s *Store[S]) State() any {
	return s.GetState()
}

// Dispatch reduces action into the state and notifies subscribers. A
// Thunk[S] (or an equivalent func literal) is called instead.
func (s *Store[S]) Dispatch(action any) {
	switch thunk := action.(type) {
	case Thunk[S]:
		thunk(s.Dispatch, s.GetState)
		return
	case func(func(any), func() S):
		thunk(s.Dispatch, s.GetState)
		return
	}

	s.mu.Lock()
	state := s.state
	for _, reduce := range s.reducers {
		state = reduce(state, action)
	}
	s.state = state
	subscribers := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub.fn()
	}
}

// Subscribe registers handler to run after every reduced dispatch. The
// returned func removes it and may be called more than once.
func (s *Store[S]) Subscribe(handler func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: handler})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscriber) bool {
			return sub.id == id
		})
	}
}

// Subscribers returns the number of registered handlers.
func (s *Store[S]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
