package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/storage"
)

// maxAlerts caps the alert list. New alerts are prepended, so adding past the
// cap drops the oldest one off the end.
const maxAlerts = 50

const alertsKey = "alerts"

var (
	// ErrInvalidTarget rejects targets that are not below the current price
	// (or not positive). An alert that already fires, or never can, is a
	// misconfiguration.
	ErrInvalidTarget = errors.New("target price must be positive and below the current price")

	// ErrAlertNotFound is returned for operations on an unknown alert id.
	ErrAlertNotFound = errors.New("alert not found")
)

// Alerts manages price watches. One alert per product URL: creating a second
// one for the same product replaces the first in place.
type Alerts struct {
	store storage.Store
	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewAlerts(store storage.Store) *Alerts {
	return &Alerts{store: store, now: time.Now, newID: uuid.NewString}
}

// Create registers an alert for the product at targetPrice. The product URL
// is normalized (query and fragment cut) before matching and storage.
func (a *Alerts) Create(ctx context.Context, product models.ProductData, targetPrice float64) (models.PriceAlert, error) {
	if targetPrice <= 0 || targetPrice >= product.Price {
		return models.PriceAlert{}, fmt.Errorf("%w: target %.2f, current %.2f", ErrInvalidTarget, targetPrice, product.Price)
	}

	alert := models.PriceAlert{
		ID:           a.newID(),
		ProductURL:   normalizeURL(product.URL),
		ProductName:  product.Name,
		CurrentPrice: product.Price,
		TargetPrice:  targetPrice,
		Currency:     string(product.Currency),
		CreatedAt:    a.now().UnixMilli(),
		Source:       product.Source,
		IsActive:     true,
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	alerts, err := a.load(ctx)
	if err != nil {
		return models.PriceAlert{}, err
	}

	replaced := false
	for i := range alerts {
		if alerts[i].ProductURL == alert.ProductURL {
			alerts[i] = alert
			replaced = true
			break
		}
	}
	if !replaced {
		alerts = append([]models.PriceAlert{alert}, alerts...)
		if len(alerts) > maxAlerts {
			alerts = alerts[:maxAlerts]
		}
	}

	if err := a.save(ctx, alerts); err != nil {
		return models.PriceAlert{}, err
	}
	return alert, nil
}

// List returns all alerts, triggered ones included.
func (a *Alerts) List(ctx context.Context) ([]models.PriceAlert, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.load(ctx)
}

// Active returns only alerts that have not fired yet.
func (a *Alerts) Active(ctx context.Context) ([]models.PriceAlert, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	alerts, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	active := alerts[:0:0]
	for _, al := range alerts {
		if al.IsActive {
			active = append(active, al)
		}
	}
	return active, nil
}

// Deactivate marks a fired alert inactive, keeping it listed so the user can
// see what triggered.
func (a *Alerts) Deactivate(ctx context.Context, id string) error {
	return a.update(ctx, id, func(al *models.PriceAlert) {
		al.IsActive = false
	})
}

// UpdatePrice refreshes the stored current price after a watch poll.
func (a *Alerts) UpdatePrice(ctx context.Context, id string, price float64) error {
	return a.update(ctx, id, func(al *models.PriceAlert) {
		al.CurrentPrice = price
	})
}

// Remove deletes an alert outright.
func (a *Alerts) Remove(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	alerts, err := a.load(ctx)
	if err != nil {
		return err
	}
	for i := range alerts {
		if alerts[i].ID == id {
			alerts = append(alerts[:i], alerts[i+1:]...)
			return a.save(ctx, alerts)
		}
	}
	return ErrAlertNotFound
}

func (a *Alerts) update(ctx context.Context, id string, fn func(*models.PriceAlert)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	alerts, err := a.load(ctx)
	if err != nil {
		return err
	}
	for i := range alerts {
		if alerts[i].ID == id {
			fn(&alerts[i])
			return a.save(ctx, alerts)
		}
	}
	return ErrAlertNotFound
}

func (a *Alerts) load(ctx context.Context) ([]models.PriceAlert, error) {
	data, err := a.store.Get(ctx, alertsKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load alerts: %w", err)
	}
	var alerts []models.PriceAlert
	if err := json.Unmarshal(data, &alerts); err != nil {
		return nil, fmt.Errorf("decode alerts: %w", err)
	}
	return alerts, nil
}

func (a *Alerts) save(ctx context.Context, alerts []models.PriceAlert) error {
	data, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("encode alerts: %w", err)
	}
	if err := a.store.Set(ctx, alertsKey, data, 0); err != nil {
		return fmt.Errorf("save alerts: %w", err)
	}
	return nil
}

func normalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
