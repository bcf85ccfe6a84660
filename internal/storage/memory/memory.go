package memory

import (
	"context"
	"sync"
	"time"
)

// Store is an in-memory key-value backend.
// It is useful for tests and for a throwaway surface; nothing survives a restart.
// This implementation is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	values    map[string][]byte // key -> raw JSON
	lastWrite time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the stored value, nil when absent.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = v
	s.lastWrite = time.Now()
	return nil
}

// Keys returns the number of keys held.
func (s *Store) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// LastWrite returns the time of the last Set.
func (s *Store) LastWrite() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastWrite
}

func (s *Store) Close() error { return nil }
