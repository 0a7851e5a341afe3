package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "alerts", []byte(`{"a":1}`), 0))

	got, err := s.Get(ctx, "alerts")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	// A fresh store over the same file sees the data.
	s2, err := NewFileStore(path)
	require.NoError(t, err)
	got, err = s2.Get(ctx, "alerts")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}

func TestFileStore_MissingKey(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_DeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "k", []byte(`1`), 0))
	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "k", []byte(`1`), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err = s.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	keys, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestFileStore_KeysPrefix(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "cache:a", []byte(`1`), 0))
	require.NoError(t, s.Set(ctx, "cache:b", []byte(`2`), 0))
	require.NoError(t, s.Set(ctx, "history", []byte(`3`), 0))

	keys, err := s.Keys(ctx, "cache:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cache:a", "cache:b"}, keys)
}

func TestMemoryStore_ValueIsCopied(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	buf := []byte(`{"a":1}`)
	require.NoError(t, s.Set(ctx, "k", buf, 0))
	buf[2] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
}
