package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nohype/nohype/internal/extractor"
	"github.com/nohype/nohype/internal/models"
)

// fastTimeout bounds the fast-strategy race before the headless fallback
// kicks in.
const fastTimeout = 10 * time.Second

// Fetcher turns product URLs into ProductData snapshots. Fast strategies are
// raced concurrently; slow ones run sequentially once the race comes up
// empty. A strategy's HTML only wins if the site extractor can actually pull
// a product out of it.
type Fetcher struct {
	fast          []Strategy
	slow          []Strategy
	registry      *extractor.Registry
	limiter       *rate.Limiter
	maxConcurrent int
	log           *slog.Logger
}

// Options configures a Fetcher.
type Options struct {
	Fast          []Strategy
	Slow          []Strategy
	Limiter       *rate.Limiter
	MaxConcurrent int
}

// New builds a fetcher over the extractor registry.
func New(registry *extractor.Registry, opts Options, log *slog.Logger) *Fetcher {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 3
	}
	return &Fetcher{
		fast:          opts.Fast,
		slow:          opts.Slow,
		registry:      registry,
		limiter:       opts.Limiter,
		maxConcurrent: opts.MaxConcurrent,
		log:           log.With("component", "fetch"),
	}
}

// Product fetches and extracts a single product page.
func (f *Fetcher) Product(ctx context.Context, pageURL string) (*models.ProductData, error) {
	ext, ok := f.registry.ForURL(pageURL)
	if !ok {
		return nil, fmt.Errorf("unsupported site: %s", pageURL)
	}

	// Phase 1: race the fast strategies.
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type fetchResult struct {
		product  *models.ProductData
		strategy string
	}
	resultCh := make(chan fetchResult, len(f.fast))
	failCh := make(chan struct{}, len(f.fast))

	for _, s := range f.fast {
		go func(s Strategy) {
			if f.limiter != nil {
				if err := f.limiter.Wait(raceCtx); err != nil {
					failCh <- struct{}{}
					return
				}
			}
			product, err := f.attempt(raceCtx, s, ext, pageURL)
			if err != nil {
				f.log.Debug("strategy failed", "url", pageURL, "strategy", s.Name(), "error", err)
				failCh <- struct{}{}
				return
			}
			resultCh <- fetchResult{product: product, strategy: s.Name()}
		}(s)
	}

	timer := time.NewTimer(fastTimeout)
	defer timer.Stop()
	for pending := len(f.fast); pending > 0; {
		select {
		case r := <-resultCh:
			cancel()
			f.log.Debug("product fetched", "url", pageURL, "strategy", r.strategy)
			return r.product, nil
		case <-failCh:
			pending--
		case <-timer.C:
			pending = 0
			f.log.Debug("fast strategies timed out, falling back", "url", pageURL)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	cancel()

	// Phase 2: slow strategies, one at a time.
	for _, s := range f.slow {
		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		product, err := f.attempt(ctx, s, ext, pageURL)
		if err == nil {
			f.log.Debug("product fetched", "url", pageURL, "strategy", s.Name())
			return product, nil
		}
		f.log.Debug("strategy failed", "url", pageURL, "strategy", s.Name(), "error", err)
	}

	return nil, fmt.Errorf("all strategies exhausted for %s", pageURL)
}

// Products fetches several URLs concurrently, bounded by MaxConcurrent and
// the shared rate limiter. Results keep the input order; a failed URL leaves
// a nil slot and the first error is returned alongside the partial results.
func (f *Fetcher) Products(ctx context.Context, urls []string) ([]*models.ProductData, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.maxConcurrent)

	results := make([]*models.ProductData, len(urls))
	for i, u := range urls {
		g.Go(func() error {
			product, err := f.Product(gctx, u)
			if err != nil {
				return fmt.Errorf("%s: %w", u, err)
			}
			results[i] = product
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

// CurrentPrice refetches a product and reports its price. Satisfies the
// alert watcher's price source.
func (f *Fetcher) CurrentPrice(ctx context.Context, productURL string) (float64, error) {
	product, err := f.Product(ctx, productURL)
	if err != nil {
		return 0, err
	}
	if product.Price <= 0 {
		return 0, fmt.Errorf("no price extracted from %s", productURL)
	}
	return product.Price, nil
}

// attempt runs one strategy and validates its output through the extractor.
func (f *Fetcher) attempt(ctx context.Context, s Strategy, ext extractor.Extractor, pageURL string) (*models.ProductData, error) {
	html, err := s.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	page, err := extractor.ParsePage(html, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	product := ext.Extract(page)
	if product == nil || product.Name == "" {
		return nil, fmt.Errorf("no product extracted via %s", s.Name())
	}
	return product, nil
}
