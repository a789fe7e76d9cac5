// Package memory is an in-process Storage backend used by tests and by the
// single-instance "memory" deployment mode.
package memory

import (
	"context"
	"sort"
	"sync"
)

// Storage keeps values in a map. Values are copied on the way in and out.
type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty in-memory Storage.
func New() *Storage {
	return &Storage{data: make(map[string][]byte)}
}

// Load implements storage.Storage.
func (s *Storage) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Save implements storage.Storage.
func (s *Storage) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *Storage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error { return nil }
