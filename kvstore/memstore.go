package kvstore

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

type memStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemStore creates a Store held entirely in process memory. Values are
// copied on the way in and out.
func NewMemStore() Store {
	return &memStore{values: make(map[string][]byte)}
}

func (s *memStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.values)), nil
}

func (s *memStore) Load(_ context.Context, keys ...string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		val, ok := s.values[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		entries = append(entries, Entry{Key: key, Value: slices.Clone(val)})
	}
	return entries, nil
}

func (s *memStore) Save(_ context.Context, entries ...Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if err := ValidateKey(e.Key); err != nil {
			return err
		}
		s.values[e.Key] = slices.Clone(e.Value)
	}
	return nil
}

func (s *memStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}
