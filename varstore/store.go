// Package varstore maps store keys to their current scalar and, for keys
// that some expression reads with lag, a bounded history.
package varstore

import (
	"sync"

	"github.com/StupidArthur/data-factory-next/ringbuf"
)

type state struct {
	current   float64
	hasValue  bool
	history   *ringbuf.RingBuffer
}

// Store is a mapping from name to (current value, optional ring buffer),
// plus per-name lag configuration. A Store is owned by a single engine and
// accessed only from its executor, matching the core's single-threaded
// model; every method also takes an internal mutex, so individual calls
// are safe from multiple goroutines.
type Store struct {
	mu         sync.Mutex
	capacities map[string]int
	states     map[string]*state
}

func New() *Store {
	return &Store{
		capacities: make(map[string]int),
		states:     make(map[string]*state),
	}
}

// ConfigureLag records the required history capacity for name. Idempotent:
// calling it again with the same or different capacity before any state
// exists simply overwrites the recorded requirement. Must be called before
// the first Set for that name to take effect on buffer sizing.
func (s *Store) ConfigureLag(name string, capacity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capacities[name] = capacity
}

func (s *Store) getState(name string) *state {
	st, ok := s.states[name]
	if ok {
		return st
	}
	st = &state{}
	if capacity := s.capacities[name]; capacity > 0 {
		st.history = ringbuf.New(capacity)
	}
	s.states[name] = st
	return st
}

// Set creates state lazily, honoring any previously configured capacity,
// updates the current value, and appends to history if a buffer exists.
func (s *Store) Set(name string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.getState(name)
	st.current = v
	st.hasValue = true
	if st.history != nil {
		st.history.Push(v)
	}
}

// Get returns the current value for name, or def if name was never set.
// Reading a never-written key never allocates state.
func (s *Store) Get(name string, def float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[name]
	if !ok || !st.hasValue {
		return def
	}
	return st.current
}

// GetWithLag returns the value k cycles before the current one for name.
// If name has no history buffer, it returns the current value when k=0,
// otherwise def.
func (s *Store) GetWithLag(name string, k int, def float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[name]
	if !ok || !st.hasValue {
		return def
	}
	if st.history != nil {
		return st.history.GetByLag(k, def)
	}
	if k == 0 {
		return st.current
	}
	return def
}

// Keys returns every name that has ever been Set, in no particular order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.states))
	for k, st := range s.states {
		if st.hasValue {
			keys = append(keys, k)
		}
	}
	return keys
}
