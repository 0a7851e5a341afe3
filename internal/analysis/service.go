// Package analysis orchestrates a product analysis: cache lookup, the remote
// service with local heuristic fallback, then cache and history writes.
package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/nohype/nohype/internal/analyzer"
	"github.com/nohype/nohype/internal/cache"
	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/store"
)

// Remote is the slice of the api client the service needs. Nil means run
// purely on the local heuristics.
type Remote interface {
	Analyze(ctx context.Context, product models.ProductData) (*models.AnalysisResult, error)
}

// Service runs analyses end to end.
type Service struct {
	heuristic *analyzer.Analyzer
	remote    Remote
	cache     *cache.Cache
	history   *store.History
	log       *slog.Logger
}

// New wires the service. remote may be nil.
func New(heuristic *analyzer.Analyzer, remote Remote, c *cache.Cache, history *store.History, log *slog.Logger) *Service {
	return &Service{
		heuristic: heuristic,
		remote:    remote,
		cache:     c,
		history:   history,
		log:       log.With("component", "analysis"),
	}
}

// Analyze returns the analysis for the product, serving from cache when a
// fresh result exists. cached reports which path was taken; cache hits leave
// history untouched so repeat visits within the TTL do not pad the log.
func (s *Service) Analyze(ctx context.Context, product models.ProductData) (result *models.AnalysisResult, cached bool, err error) {
	if result, ok := s.cache.Get(ctx, product.URL); ok {
		s.log.Debug("cache hit", "url", product.URL)
		return result, true, nil
	}

	result = s.compute(ctx, product)

	if err := s.cache.Put(ctx, product.URL, result); err != nil {
		s.log.Warn("caching analysis failed", "url", product.URL, "error", err)
	}
	if err := s.history.Add(ctx, models.HistoryItem{
		URL:         product.URL,
		ProductName: product.Name,
		HypeScore:   result.HypeScore,
		Date:        time.UnixMilli(result.AnalyzedAt).Format(time.RFC3339),
	}); err != nil {
		s.log.Warn("recording history failed", "url", product.URL, "error", err)
	}

	return result, false, nil
}

// compute prefers the remote service and falls back to local heuristics on
// any failure. The fallback result is indistinguishable in shape, only the
// review block is weaker.
func (s *Service) compute(ctx context.Context, product models.ProductData) *models.AnalysisResult {
	if s.remote != nil {
		result, err := s.remote.Analyze(ctx, product)
		if err == nil {
			return result
		}
		s.log.Warn("analysis api unavailable, using heuristics", "url", product.URL, "error", err)
	}
	result := s.heuristic.Analyze(product)
	return &result
}
