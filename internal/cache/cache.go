// Package cache stores analysis results keyed by normalized product URL.
// Lookups go through an in-process map first and fall back to the document
// store, so repeat visits within the TTL never recompute, even across
// restarts.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/storage"
)

// TTL is how long a result stays fresh, measured from the result's own
// AnalyzedAt stamp rather than the insertion time.
const TTL = time.Hour

const keyPrefix = "cache:"

// Cache is the two-tier analysis result cache.
type Cache struct {
	store storage.Store
	log   *slog.Logger
	now   func() time.Time

	mu  sync.RWMutex
	mem map[string]*models.AnalysisResult
}

// New builds a cache over the given store.
func New(store storage.Store, log *slog.Logger) *Cache {
	return &Cache{
		store: store,
		log:   log.With("component", "cache"),
		now:   time.Now,
		mem:   map[string]*models.AnalysisResult{},
	}
}

// Key normalizes a product URL into a cache key by cutting the query string
// and fragment. Tracking parameters change between visits to the same
// product, the path does not. Already-normalized keys pass through unchanged.
func Key(rawURL string) string {
	if i := indexAny(rawURL, '?', '#'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}

func indexAny(s string, chars ...byte) int {
	for i := 0; i < len(s); i++ {
		for _, c := range chars {
			if s[i] == c {
				return i
			}
		}
	}
	return -1
}

// Get returns the cached result for the URL if one exists and is fresh.
func (c *Cache) Get(ctx context.Context, rawURL string) (*models.AnalysisResult, bool) {
	key := Key(rawURL)

	c.mu.RLock()
	result, ok := c.mem[key]
	c.mu.RUnlock()
	if ok && c.fresh(result) {
		return result, true
	}

	data, err := c.store.Get(ctx, keyPrefix+key)
	if err != nil {
		return nil, false
	}
	var stored models.AnalysisResult
	if err := json.Unmarshal(data, &stored); err != nil {
		c.log.Warn("dropping undecodable cache entry", "key", key, "error", err)
		_ = c.store.Delete(ctx, keyPrefix+key)
		return nil, false
	}
	if !c.fresh(&stored) {
		return nil, false
	}

	c.mu.Lock()
	c.mem[key] = &stored
	c.mu.Unlock()
	return &stored, true
}

// Put stores the result under its product URL in both tiers.
func (c *Cache) Put(ctx context.Context, rawURL string, result *models.AnalysisResult) error {
	key := Key(rawURL)

	c.mu.Lock()
	c.mem[key] = result
	c.mu.Unlock()

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode analysis result: %w", err)
	}
	if err := c.store.Set(ctx, keyPrefix+key, data, TTL); err != nil {
		return fmt.Errorf("persist analysis result: %w", err)
	}
	return nil
}

// Clear drops both tiers.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.mem = map[string]*models.AnalysisResult{}
	c.mu.Unlock()

	keys, err := c.store.Keys(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("list cache keys: %w", err)
	}
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			return fmt.Errorf("delete cache entry %s: %w", k, err)
		}
	}
	c.log.Info("cache cleared", "entries", len(keys))
	return nil
}

func (c *Cache) fresh(result *models.AnalysisResult) bool {
	age := c.now().Sub(time.UnixMilli(result.AnalyzedAt))
	return age < TTL
}
