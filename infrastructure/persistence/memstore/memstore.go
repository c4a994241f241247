// Package memstore provides an in-memory KeyValueStore used by tests
// and by the ephemeral storage mode.
package memstore

import (
	"context"
	"sync"

	"memoryvault/application/ports"
)

// Store is a map-backed KeyValueStore. Values are copied on the way in
// and out so callers cannot alias the stored bytes.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty store
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get implements ports.KeyValueStore
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put implements ports.KeyValueStore
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = stored
	return nil
}

// Delete implements ports.KeyValueStore
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close implements ports.KeyValueStore
func (s *Store) Close() error {
	return nil
}
