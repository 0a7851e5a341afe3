// Package watch periodically scans active price alerts and fires
// notifications for those whose target has been reached. A fired alert is
// deactivated, never deleted, so the user can still see what triggered.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/store"
)

// DefaultInterval is how often alerts are checked.
const DefaultInterval = time.Hour

// Notifier delivers a price-drop notification to the user.
type Notifier interface {
	Notify(ctx context.Context, alert models.PriceAlert) error
}

// PriceSource refreshes the current price of a watched product. Optional:
// without one the watcher compares against the last price recorded at alert
// creation or by a previous poll.
type PriceSource interface {
	CurrentPrice(ctx context.Context, productURL string) (float64, error)
}

// Watcher drives the alert check loop.
type Watcher struct {
	alerts   *store.Alerts
	settings *store.Settings
	notifier Notifier
	prices   PriceSource
	interval time.Duration
	log      *slog.Logger
}

// New builds a watcher. prices may be nil.
func New(alerts *store.Alerts, settings *store.Settings, notifier Notifier, prices PriceSource, interval time.Duration, log *slog.Logger) *Watcher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		alerts:   alerts,
		settings: settings,
		notifier: notifier,
		prices:   prices,
		interval: interval,
		log:      log.With("component", "watch"),
	}
}

// Run checks immediately, then on every tick until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("price alert watcher started", "interval", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.CheckOnce(ctx); err != nil {
			w.log.Error("alert check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			w.log.Info("price alert watcher stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// CheckOnce runs a single scan over the active alerts. Notifications are
// suppressed wholesale when the user has turned them off; alerts stay active
// in that case and fire on a later scan.
func (w *Watcher) CheckOnce(ctx context.Context) error {
	settings, err := w.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if !settings.ShowNotifications {
		w.log.Debug("notifications disabled, skipping scan")
		return nil
	}

	active, err := w.alerts.Active(ctx)
	if err != nil {
		return fmt.Errorf("load active alerts: %w", err)
	}

	for _, alert := range active {
		price := alert.CurrentPrice
		if w.prices != nil {
			fresh, err := w.prices.CurrentPrice(ctx, alert.ProductURL)
			if err != nil {
				w.log.Warn("price refresh failed", "url", alert.ProductURL, "error", err)
			} else {
				price = fresh
				if err := w.alerts.UpdatePrice(ctx, alert.ID, fresh); err != nil {
					w.log.Warn("storing refreshed price failed", "alert", alert.ID, "error", err)
				}
			}
		}

		if price > alert.TargetPrice {
			continue
		}

		alert.CurrentPrice = price
		if err := w.notifier.Notify(ctx, alert); err != nil {
			// Leave the alert active so the next scan retries the delivery.
			w.log.Error("notification failed", "alert", alert.ID, "error", err)
			continue
		}
		if err := w.alerts.Deactivate(ctx, alert.ID); err != nil {
			w.log.Error("deactivating fired alert failed", "alert", alert.ID, "error", err)
		}
	}
	return nil
}

// LogNotifier writes notifications to the log. The default sink when no
// system notification channel is configured.
type LogNotifier struct {
	Log *slog.Logger
}

func (n *LogNotifier) Notify(_ context.Context, alert models.PriceAlert) error {
	symbol := models.Currency(alert.Currency).Symbol()
	n.Log.Info("price alert",
		"product", alert.ProductName,
		"price", fmt.Sprintf("%.2f %s", alert.CurrentPrice, symbol),
		"target", fmt.Sprintf("%.2f %s", alert.TargetPrice, symbol),
		"url", alert.ProductURL,
	)
	return nil
}
