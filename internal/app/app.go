// Package app wires the full object graph from configuration: storage,
// cache, stores, the analysis pipeline, the page fetcher and the message
// router. The CLI commands and the MCP server both run on top of it.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/nohype/nohype/config"
	"github.com/nohype/nohype/internal/analysis"
	"github.com/nohype/nohype/internal/analyzer"
	"github.com/nohype/nohype/internal/api"
	"github.com/nohype/nohype/internal/cache"
	"github.com/nohype/nohype/internal/extractor"
	"github.com/nohype/nohype/internal/fetch"
	"github.com/nohype/nohype/internal/httputil"
	"github.com/nohype/nohype/internal/models"
	"github.com/nohype/nohype/internal/router"
	"github.com/nohype/nohype/internal/stealth"
	"github.com/nohype/nohype/internal/storage"
	"github.com/nohype/nohype/internal/store"
	"github.com/nohype/nohype/internal/watch"
)

// App is the assembled application.
type App struct {
	Cfg *config.Config
	Log *slog.Logger

	Store    storage.Store
	Cache    *cache.Cache
	History  *store.History
	Alerts   *store.Alerts
	Settings *store.Settings

	Registry *extractor.Registry
	Fetcher  *fetch.Fetcher
	Service  *analysis.Service
	Router   *router.Router
	Watcher  *watch.Watcher
}

// New builds the application from config.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	analysisCache := cache.New(st, log)
	history := store.NewHistory(st)
	alerts := store.NewAlerts(st)
	settings := store.NewSettings(st)

	registry := extractor.NewRegistry(models.Currency(cfg.DefaultCurrency))
	fetcher := buildFetcher(cfg, registry, log)

	var remote analysis.Remote
	if cfg.APIBaseURL != "" {
		client := httputil.NewClient(nil, time.Duration(cfg.APITimeoutSecs)*time.Second)
		remote = api.New(cfg.APIBaseURL, client)
	}

	heuristic := analyzer.New(analyzer.WithLanguage(cfg.Language))
	service := analysis.New(heuristic, remote, analysisCache, history, log)

	watcher := watch.New(alerts, settings, &watch.LogNotifier{Log: log}, fetcher,
		time.Duration(cfg.WatchIntervalMins)*time.Minute, log)

	return &App{
		Cfg:      cfg,
		Log:      log,
		Store:    st,
		Cache:    analysisCache,
		History:  history,
		Alerts:   alerts,
		Settings: settings,
		Registry: registry,
		Fetcher:  fetcher,
		Service:  service,
		Router:   router.New(service, log),
		Watcher:  watcher,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.Store.Close()
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "redis":
		st, err := storage.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return st, nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		st, err := storage.NewFileStore(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		return st, nil
	}
}

// buildFetcher assembles the stealth HTTP client and the strategy chain.
func buildFetcher(cfg *config.Config, registry *extractor.Registry, log *slog.Logger) *fetch.Fetcher {
	transport := &stealth.Transport{
		Base: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
		},
		Robots:      stealth.NewRobotsChecker(&http.Client{Timeout: 10 * time.Second}, cfg.RespectRobots),
		Fingerprint: stealth.NewFingerprintPool(),
		Delay:       stealth.NewHumanDelay(stealth.DelayProfile(cfg.DelayProfile)),
		RateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
	}
	client := httputil.NewClient(transport, 30*time.Second)

	fast := []fetch.Strategy{fetch.NewStaticStrategy(client)}
	var slow []fetch.Strategy
	if cfg.Headless {
		slow = append(slow, fetch.NewHeadlessStrategy(cfg.LauncherURL))
	}

	return fetch.New(registry, fetch.Options{
		Fast:          fast,
		Slow:          slow,
		Limiter:       rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		MaxConcurrent: cfg.MaxConcurrent,
	}, log)
}
