package card

import "sync"

// Store holds the current card of one session. The only mutation is a
// wholesale replacement of the Data value.
type Store struct {
	mu      sync.RWMutex
	data    Data
	version uint64
}

// NewStore creates a Store seeded with initial.
func NewStore(initial Data) *Store {
	return &Store{data: initial}
}

// Current returns the latest card.
func (s *Store) Current() Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Version counts replacements since the store was created.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Replace swaps in d as the current card.
func (s *Store) Replace(d Data) {
	s.mu.Lock()
	s.data = d
	s.version++
	s.mu.Unlock()
}

// Update derives the next card from the current one and stores it. If fn
// returns an error the store is left untouched and the current card is
// returned alongside the error.
func (s *Store) Update(fn func(Data) (Data, error)) (Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.data)
	if err != nil {
		return s.data, err
	}
	s.data = next
	s.version++
	return next, nil
}
