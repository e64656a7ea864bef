// Package memory provides an in-process repohistory.Storage.
//
// Collections are copied on every Load and Save, so callers never share
// backing arrays with the store.
package memory

import (
	"context"
	"sync"

	"github.com/jmgilman/go/repohistory"
)

var _ repohistory.Storage = (*Storage)(nil)

// Storage keeps collections in a map guarded by a mutex.
type Storage struct {
	mu          sync.RWMutex
	collections map[string][]repohistory.Entry
}

// New creates an empty in-memory store.
func New() *Storage {
	return &Storage{
		collections: make(map[string][]repohistory.Entry),
	}
}

// Load returns a copy of the collection under key, or nil if none was saved.
func (s *Storage) Load(_ context.Context, key string) ([]repohistory.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.collections[key]
	if !ok {
		return nil, nil
	}
	return clone(entries), nil
}

// Save replaces the collection under key with a copy of entries.
func (s *Storage) Save(_ context.Context, key string, entries []repohistory.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[key] = clone(entries)
	return nil
}

func clone(entries []repohistory.Entry) []repohistory.Entry {
	out := make([]repohistory.Entry, len(entries))
	copy(out, entries)
	return out
}
