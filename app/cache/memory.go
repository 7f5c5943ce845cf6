package cache

import (
	"sort"
	"strings"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a map-backed Store used in tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
	}
}

func (s *MemoryStore) Get(key string) (*Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}

	// Copy the payload so callers cannot mutate the stored entry
	payload := make([]byte, len(entry.Payload))
	copy(payload, entry.Payload)

	return &Entry{Payload: payload, Date: entry.Date}, true, nil
}

func (s *MemoryStore) Set(key string, payload []byte, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(payload))
	copy(stored, payload)

	s.entries[key] = Entry{Payload: stored, Date: date}
	return nil
}

func (s *MemoryStore) KeysWithPrefix(prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	return keys, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
