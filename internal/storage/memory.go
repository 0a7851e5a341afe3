package storage

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a map-backed Store. Used in tests and for throwaway runs
// where persistence is not wanted.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memDoc
}

type memDoc struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]memDoc{}}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	doc, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok || (!doc.expiresAt.IsZero() && time.Now().After(doc.expiresAt)) {
		return nil, ErrNotFound
	}
	return doc.value, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	doc := memDoc{value: append([]byte(nil), value...)}
	if ttl > 0 {
		doc.expiresAt = time.Now().Add(ttl)
	}
	s.mu.Lock()
	s.docs[key] = doc
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.docs, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	now := time.Now()
	for k, doc := range s.docs {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if !doc.expiresAt.IsZero() && now.After(doc.expiresAt) {
			continue
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *MemoryStore) Close() error { return nil }
