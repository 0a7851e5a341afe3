package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/storage"
	"github.com/nohype/nohype/internal/store"
)

type notifierSpy struct {
	fired []models.PriceAlert
	err   error
}

func (n *notifierSpy) Notify(_ context.Context, alert models.PriceAlert) error {
	if n.err != nil {
		return n.err
	}
	n.fired = append(n.fired, alert)
	return nil
}

type priceStub struct {
	prices map[string]float64
}

func (p *priceStub) CurrentPrice(_ context.Context, url string) (float64, error) {
	price, ok := p.prices[url]
	if !ok {
		return 0, errors.New("unreachable")
	}
	return price, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixture(t *testing.T) (*store.Alerts, *store.Settings) {
	t.Helper()
	mem := storage.NewMemoryStore()
	return store.NewAlerts(mem), store.NewSettings(mem)
}

func createAlert(t *testing.T, alerts *store.Alerts, url string, current, target float64) models.PriceAlert {
	t.Helper()
	alert, err := alerts.Create(t.Context(), models.ProductData{
		URL:      url,
		Name:     "Produkt",
		Price:    current,
		Currency: models.PLN,
	}, target)
	require.NoError(t, err)
	return alert
}

func TestCheckOnce_FiresAndDeactivates(t *testing.T) {
	ctx := context.Background()
	alerts, settings := fixture(t)
	alert := createAlert(t, alerts, "https://allegro.pl/oferta/x-1", 100, 80)
	require.NoError(t, alerts.UpdatePrice(ctx, alert.ID, 75))

	spy := &notifierSpy{}
	w := New(alerts, settings, spy, nil, 0, discard())

	require.NoError(t, w.CheckOnce(ctx))
	require.Len(t, spy.fired, 1)
	assert.Equal(t, 75.0, spy.fired[0].CurrentPrice)

	active, err := alerts.Active(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := alerts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCheckOnce_DoesNotRefire(t *testing.T) {
	ctx := context.Background()
	alerts, settings := fixture(t)
	alert := createAlert(t, alerts, "https://allegro.pl/oferta/x-1", 100, 80)
	require.NoError(t, alerts.UpdatePrice(ctx, alert.ID, 70))

	spy := &notifierSpy{}
	w := New(alerts, settings, spy, nil, 0, discard())

	require.NoError(t, w.CheckOnce(ctx))
	require.NoError(t, w.CheckOnce(ctx))

	assert.Len(t, spy.fired, 1)
}

func TestCheckOnce_AboveTargetStaysActive(t *testing.T) {
	ctx := context.Background()
	alerts, settings := fixture(t)
	createAlert(t, alerts, "https://allegro.pl/oferta/x-1", 100, 80)

	spy := &notifierSpy{}
	w := New(alerts, settings, spy, nil, 0, discard())

	require.NoError(t, w.CheckOnce(ctx))
	assert.Empty(t, spy.fired)

	active, err := alerts.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCheckOnce_NotificationsDisabled(t *testing.T) {
	ctx := context.Background()
	alerts, settings := fixture(t)
	alert := createAlert(t, alerts, "https://allegro.pl/oferta/x-1", 100, 80)
	require.NoError(t, alerts.UpdatePrice(ctx, alert.ID, 70))

	s := models.DefaultSettings()
	s.ShowNotifications = false
	require.NoError(t, settings.Save(ctx, s))

	spy := &notifierSpy{}
	w := New(alerts, settings, spy, nil, 0, discard())

	require.NoError(t, w.CheckOnce(ctx))
	assert.Empty(t, spy.fired)

	// Alert survives for when notifications come back on.
	active, err := alerts.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestCheckOnce_RefreshesPriceFromSource(t *testing.T) {
	ctx := context.Background()
	alerts, settings := fixture(t)
	alert := createAlert(t, alerts, "https://allegro.pl/oferta/x-1", 100, 80)

	prices := &priceStub{prices: map[string]float64{alert.ProductURL: 79.99}}
	spy := &notifierSpy{}
	w := New(alerts, settings, spy, prices, 0, discard())

	require.NoError(t, w.CheckOnce(ctx))
	require.Len(t, spy.fired, 1)
	assert.Equal(t, 79.99, spy.fired[0].CurrentPrice)
}

func TestCheckOnce_PriceSourceFailureFallsBackToStoredPrice(t *testing.T) {
	ctx := context.Background()
	alerts, settings := fixture(t)
	createAlert(t, alerts, "https://allegro.pl/oferta/x-1", 100, 80)

	spy := &notifierSpy{}
	w := New(alerts, settings, spy, &priceStub{}, 0, discard())

	// Refresh fails; stored price (100) is above target, nothing fires.
	require.NoError(t, w.CheckOnce(ctx))
	assert.Empty(t, spy.fired)
}

func TestCheckOnce_FailedNotificationKeepsAlertActive(t *testing.T) {
	ctx := context.Background()
	alerts, settings := fixture(t)
	alert := createAlert(t, alerts, "https://allegro.pl/oferta/x-1", 100, 80)
	require.NoError(t, alerts.UpdatePrice(ctx, alert.ID, 70))

	spy := &notifierSpy{err: errors.New("notification channel down")}
	w := New(alerts, settings, spy, nil, 0, discard())

	require.NoError(t, w.CheckOnce(ctx))

	active, err := alerts.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
