package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileStore keeps every document in a single JSON file, loaded on open and
// rewritten on every mutation. Fine for the volumes involved here (a hundred
// history entries, a few dozen alerts).
type FileStore struct {
	path string

	mu   sync.RWMutex
	docs map[string]fileDoc
}

type fileDoc struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expiresAt,omitempty"` // unix ms, 0 = no expiry
}

// NewFileStore opens (or creates) the store file at path.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, docs: map[string]fileDoc{}}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("open store file: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.docs); err != nil {
			return nil, fmt.Errorf("parse store file %s: %w", path, err)
		}
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	doc, ok := s.docs[key]
	s.mu.RUnlock()
	if !ok || expired(doc) {
		return nil, ErrNotFound
	}
	return doc.Value, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	doc := fileDoc{Value: json.RawMessage(value)}
	if ttl > 0 {
		doc.ExpiresAt = time.Now().Add(ttl).UnixMilli()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = doc
	return s.flushLocked()
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[key]; !ok {
		return nil
	}
	delete(s.docs, key)
	return s.flushLocked()
}

func (s *FileStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k, doc := range s.docs {
		if strings.HasPrefix(k, prefix) && !expired(doc) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func (s *FileStore) Close() error { return nil }

// flushLocked rewrites the backing file atomically via a temp file rename.
// Caller must hold mu.
func (s *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(s.docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func expired(doc fileDoc) bool {
	return doc.ExpiresAt > 0 && time.Now().UnixMilli() >= doc.ExpiresAt
}
