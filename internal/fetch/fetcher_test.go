package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nohype/nohype/internal/extractor"
	"github.com/nohype/nohype/internal/models"
)

const productHTML = `<html><body>
<h1 data-box-name="allegro.offer.title">Zegarek sportowy GPS</h1>
<div data-box-name="allegro.offer.price"><span aria-label="cena 649,00 zł">649,00 zł</span></div>
</body></html>`

type stubStrategy struct {
	name  string
	html  string
	err   error
	calls atomic.Int32
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Fetch(context.Context, string) (string, error) {
	s.calls.Add(1)
	return s.html, s.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFetcher(fast, slow []Strategy) *Fetcher {
	return New(extractor.NewRegistry(models.PLN), Options{Fast: fast, Slow: slow}, discard())
}

func TestProduct_FastStrategyWins(t *testing.T) {
	fast := &stubStrategy{name: "static", html: productHTML}
	slow := &stubStrategy{name: "headless", html: productHTML}
	f := newFetcher([]Strategy{fast}, []Strategy{slow})

	product, err := f.Product(context.Background(), "https://allegro.pl/oferta/zegarek-123")
	require.NoError(t, err)
	assert.Equal(t, "Zegarek sportowy GPS", product.Name)
	assert.Equal(t, int32(0), slow.calls.Load())
}

func TestProduct_FallsBackToSlowStrategy(t *testing.T) {
	fast := &stubStrategy{name: "static", err: errors.New("blocked")}
	slow := &stubStrategy{name: "headless", html: productHTML}
	f := newFetcher([]Strategy{fast}, []Strategy{slow})

	product, err := f.Product(context.Background(), "https://allegro.pl/oferta/zegarek-123")
	require.NoError(t, err)
	assert.Equal(t, 649.00, product.Price)
	assert.Equal(t, int32(1), slow.calls.Load())
}

func TestProduct_EmptyShellTriggersFallback(t *testing.T) {
	// The static fetch succeeds but returns a JS shell with no product.
	fast := &stubStrategy{name: "static", html: `<html><div id="root"></div></html>`}
	slow := &stubStrategy{name: "headless", html: productHTML}
	f := newFetcher([]Strategy{fast}, []Strategy{slow})

	product, err := f.Product(context.Background(), "https://allegro.pl/oferta/zegarek-123")
	require.NoError(t, err)
	assert.Equal(t, "Zegarek sportowy GPS", product.Name)
}

func TestProduct_UnsupportedSite(t *testing.T) {
	f := newFetcher([]Strategy{&stubStrategy{name: "static", html: productHTML}}, nil)

	_, err := f.Product(context.Background(), "https://sklep.example.pl/produkt/1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported site")
}

func TestProduct_AllStrategiesExhausted(t *testing.T) {
	fast := &stubStrategy{name: "static", err: errors.New("blocked")}
	slow := &stubStrategy{name: "headless", err: errors.New("no browser")}
	f := newFetcher([]Strategy{fast}, []Strategy{slow})

	_, err := f.Product(context.Background(), "https://allegro.pl/oferta/zegarek-123")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exhausted")
}

func TestProducts_KeepsInputOrder(t *testing.T) {
	f := newFetcher([]Strategy{&stubStrategy{name: "static", html: productHTML}}, nil)

	urls := []string{
		"https://allegro.pl/oferta/zegarek-1",
		"https://allegro.pl/oferta/zegarek-2",
	}
	products, err := f.Products(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, urls[0], products[0].URL)
	assert.Equal(t, urls[1], products[1].URL)
}

func TestCurrentPrice(t *testing.T) {
	f := newFetcher([]Strategy{&stubStrategy{name: "static", html: productHTML}}, nil)

	price, err := f.CurrentPrice(context.Background(), "https://allegro.pl/oferta/zegarek-123")
	require.NoError(t, err)
	assert.Equal(t, 649.00, price)
}

func TestStaticStrategy_FetchesAndDecompresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Language"), "pl-PL")
		fmt.Fprint(w, productHTML)
	}))
	defer srv.Close()

	s := NewStaticStrategy(srv.Client())
	html, err := s.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, html, "Zegarek sportowy GPS")
}

func TestStaticStrategy_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewStaticStrategy(srv.Client()).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
