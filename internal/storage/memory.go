/*
Package storage
File: memory.go
Description:
    Key/value backends behind the engine's Store port.
    MemoryStore keeps everything in a map; it serves the "memory" driver
    and stands in for real storage in tests, including failing storage.
*/

package storage

import (
	"errors"
	"sync"
)

// ErrUnavailable is returned by a MemoryStore that has been switched off.
var ErrUnavailable = errors.New("storage unavailable")

// MemoryStore keeps values in a map. It backs the "memory" driver and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	broken bool
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

// Load returns a copy of every stored value.
func (s *MemoryStore) Load() (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.broken {
		return nil, ErrUnavailable
	}
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out, nil
}

// Save writes every value, replacing existing keys.
func (s *MemoryStore) Save(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken {
		return ErrUnavailable
	}
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

// Clear deletes the given keys. Missing keys are ignored.
func (s *MemoryStore) Clear(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.broken {
		return ErrUnavailable
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

// Set writes a raw value, bypassing any encoding. Useful for seeding.
func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// Get reads a raw value.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Len reports how many keys are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// SetBroken makes every Load, Save, and Clear fail with ErrUnavailable,
// simulating storage that is full or switched off.
func (s *MemoryStore) SetBroken(broken bool) {
	s.mu.Lock()
	s.broken = broken
	s.mu.Unlock()
}
