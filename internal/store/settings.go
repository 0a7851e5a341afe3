package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/storage"
)

const settingsKey = "settings"

// Settings persists user preferences, falling back to defaults when nothing
// has been saved yet.
type Settings struct {
	store storage.Store
}

func NewSettings(store storage.Store) *Settings {
	return &Settings{store: store}
}

// Get returns the stored settings, or the defaults on first run.
func (s *Settings) Get(ctx context.Context) (models.Settings, error) {
	data, err := s.store.Get(ctx, settingsKey)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	var settings models.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return models.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// Save replaces the stored settings.
func (s *Settings) Save(ctx context.Context, settings models.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.Set(ctx, settingsKey, data, 0); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
