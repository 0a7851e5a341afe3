// Package store keeps the user-facing collections (analysis history, price
// alerts, settings) on top of the document store.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/storage"
)

// maxHistory caps the history list; the oldest entries fall off the end.
const maxHistory = 100

const historyKey = "history"

// History is the newest-first list of past analyses. Repeat analyses of the
// same product append again rather than deduplicating, the list is a log.
type History struct {
	store storage.Store
	mu    sync.Mutex
}

func NewHistory(store storage.Store) *History {
	return &History{store: store}
}

// Add prepends an item, trimming the list to its cap.
func (h *History) Add(ctx context.Context, item models.HistoryItem) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	items, err := h.load(ctx)
	if err != nil {
		return err
	}
	items = append([]models.HistoryItem{item}, items...)
	if len(items) > maxHistory {
		items = items[:maxHistory]
	}
	return h.save(ctx, items)
}

// List returns the history, newest first.
func (h *History) List(ctx context.Context) ([]models.HistoryItem, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

// Clear empties the history.
func (h *History) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.Delete(ctx, historyKey)
}

func (h *History) load(ctx context.Context) ([]models.HistoryItem, error) {
	data, err := h.store.Get(ctx, historyKey)
	if err == storage.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	var items []models.HistoryItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return items, nil
}

func (h *History) save(ctx context.Context, items []models.HistoryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := h.store.Set(ctx, historyKey, data, 0); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
