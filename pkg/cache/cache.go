// Package cache persists computed score results keyed by listing URL.
// Stores only hold entries; expiry is decided by the caller from the
// entry's ComputedAt timestamp.
package cache

import (
	"sync"
	"time"

	"trust-shield/models"
)

// Entry is one cached evaluation.
type Entry struct {
	Result     models.ScoreResult `json:"result"`
	ComputedAt time.Time          `json:"computedAt"`
}

// Age reports how long ago the entry was computed.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.ComputedAt)
}

// Store is the persistence contract for score results.
// Get returns (nil, nil) on a miss.
type Store interface {
	Get(url string) (*Entry, error)
	Put(url string, entry Entry) error
	Close() error
}

// MemoryStore keeps entries in process memory. Used in tests and when
// the service runs without a cache file.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(url string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[url]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryStore) Put(url string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[url] = entry
	return nil
}

func (s *MemoryStore) Close() error { return nil }
