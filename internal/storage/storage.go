// Package storage provides the persistence layer behind the analysis cache,
// history, alerts and settings. Documents are stored as JSON blobs under
// string keys; callers marshal their own types.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key has no stored document.
var ErrNotFound = errors.New("storage: not found")

// Store is a minimal JSON document store.
type Store interface {
	// Get loads the raw document under key. ErrNotFound when absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set writes the document under key. A zero ttl stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the document. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys with the given prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Close releases the underlying resources.
	Close() error
}
