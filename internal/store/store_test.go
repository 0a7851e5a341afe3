package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/storage"
)

func TestHistory_PrependsNewestFirst(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(storage.NewMemoryStore())

	require.NoError(t, h.Add(ctx, models.HistoryItem{ProductName: "first"}))
	require.NoError(t, h.Add(ctx, models.HistoryItem{ProductName: "second"}))

	items, err := h.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "second", items[0].ProductName)
	assert.Equal(t, "first", items[1].ProductName)
}

func TestHistory_CappedAtOneHundred(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(storage.NewMemoryStore())

	for i := 0; i < 105; i++ {
		require.NoError(t, h.Add(ctx, models.HistoryItem{ProductName: fmt.Sprintf("p%d", i)}))
	}

	items, err := h.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 100)
	assert.Equal(t, "p104", items[0].ProductName)
	assert.Equal(t, "p5", items[99].ProductName)
}

func TestHistory_RepeatAnalysesAreNotDeduplicated(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(storage.NewMemoryStore())

	item := models.HistoryItem{URL: "https://allegro.pl/oferta/x-1", ProductName: "x"}
	require.NoError(t, h.Add(ctx, item))
	require.NoError(t, h.Add(ctx, item))

	items, err := h.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestHistory_Clear(t *testing.T) {
	ctx := context.Background()
	h := NewHistory(storage.NewMemoryStore())

	require.NoError(t, h.Add(ctx, models.HistoryItem{ProductName: "x"}))
	require.NoError(t, h.Clear(ctx))

	items, err := h.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func testProduct(price float64) models.ProductData {
	return models.ProductData{
		URL:      "https://allegro.pl/oferta/zegarek-123?utm_source=fb",
		Name:     "Zegarek",
		Price:    price,
		Currency: models.PLN,
		Source:   models.SourceAllegro,
	}
}

func TestAlerts_Create(t *testing.T) {
	ctx := context.Background()
	a := NewAlerts(storage.NewMemoryStore())

	alert, err := a.Create(ctx, testProduct(100), 80)
	require.NoError(t, err)

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "https://allegro.pl/oferta/zegarek-123", alert.ProductURL)
	assert.Equal(t, 80.0, alert.TargetPrice)
	assert.Equal(t, 100.0, alert.CurrentPrice)
	assert.True(t, alert.IsActive)
}

func TestAlerts_RejectsInvalidTargets(t *testing.T) {
	ctx := context.Background()
	a := NewAlerts(storage.NewMemoryStore())

	_, err := a.Create(ctx, testProduct(100), 0)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = a.Create(ctx, testProduct(100), -5)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = a.Create(ctx, testProduct(100), 100)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = a.Create(ctx, testProduct(100), 150)
	assert.ErrorIs(t, err, ErrInvalidTarget)
}

func TestAlerts_SameProductReplacesInPlace(t *testing.T) {
	ctx := context.Background()
	a := NewAlerts(storage.NewMemoryStore())

	_, err := a.Create(ctx, testProduct(100), 80)
	require.NoError(t, err)

	// Same offer reached through different tracking params.
	p := testProduct(100)
	p.URL = "https://allegro.pl/oferta/zegarek-123?bi_s=ads"
	second, err := a.Create(ctx, p, 60)
	require.NoError(t, err)

	alerts, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, second.ID, alerts[0].ID)
	assert.Equal(t, 60.0, alerts[0].TargetPrice)
}

func TestAlerts_PrependsNewestFirst(t *testing.T) {
	ctx := context.Background()
	a := NewAlerts(storage.NewMemoryStore())

	for _, name := range []string{"a", "b", "c"} {
		p := testProduct(100)
		p.URL = "https://allegro.pl/oferta/" + name
		_, err := a.Create(ctx, p, 50)
		require.NoError(t, err)
	}

	alerts, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 3)
	assert.Equal(t, "https://allegro.pl/oferta/c", alerts[0].ProductURL)
	assert.Equal(t, "https://allegro.pl/oferta/a", alerts[2].ProductURL)
}

func TestAlerts_CappedAtFifty(t *testing.T) {
	ctx := context.Background()
	a := NewAlerts(storage.NewMemoryStore())

	for i := 0; i < 55; i++ {
		p := testProduct(100)
		p.URL = fmt.Sprintf("https://allegro.pl/oferta/produkt-%d", i)
		_, err := a.Create(ctx, p, 50)
		require.NoError(t, err)
	}

	alerts, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, alerts, 50)
	assert.Equal(t, "https://allegro.pl/oferta/produkt-54", alerts[0].ProductURL)
	assert.Equal(t, "https://allegro.pl/oferta/produkt-5", alerts[49].ProductURL)
}

func TestAlerts_DeactivateKeepsAlertListed(t *testing.T) {
	ctx := context.Background()
	a := NewAlerts(storage.NewMemoryStore())

	alert, err := a.Create(ctx, testProduct(100), 80)
	require.NoError(t, err)

	require.NoError(t, a.Deactivate(ctx, alert.ID))

	all, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)

	active, err := a.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestAlerts_Remove(t *testing.T) {
	ctx := context.Background()
	a := NewAlerts(storage.NewMemoryStore())

	alert, err := a.Create(ctx, testProduct(100), 80)
	require.NoError(t, err)

	require.NoError(t, a.Remove(ctx, alert.ID))
	assert.ErrorIs(t, a.Remove(ctx, alert.ID), ErrAlertNotFound)
}

func TestAlerts_UpdatePrice(t *testing.T) {
	ctx := context.Background()
	a := NewAlerts(storage.NewMemoryStore())

	alert, err := a.Create(ctx, testProduct(100), 80)
	require.NoError(t, err)

	require.NoError(t, a.UpdatePrice(ctx, alert.ID, 90))

	alerts, err := a.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90.0, alerts[0].CurrentPrice)
}

func TestSettings_DefaultsOnFirstRun(t *testing.T) {
	ctx := context.Background()
	s := NewSettings(storage.NewMemoryStore())

	settings, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)
}

func TestSettings_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	s := NewSettings(storage.NewMemoryStore())

	want := models.Settings{
		AutoAnalyze:       true,
		ShowNotifications: false,
		Language:          "en",
		AlertThreshold:    85,
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
