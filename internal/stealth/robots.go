package stealth

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker enforces robots.txt per marketplace, caching parsed rules
// for an hour. Unreachable or broken robots.txt permits the request; only an
// explicit disallow blocks it.
type RobotsChecker struct {
	rules    map[string]*robotstxt.RobotsData
	expiry   map[string]time.Time
	mu       sync.RWMutex
	client   *http.Client
	cacheTTL time.Duration
	enabled  bool
}

func NewRobotsChecker(client *http.Client, enabled bool) *RobotsChecker {
	return &RobotsChecker{
		rules:    make(map[string]*robotstxt.RobotsData),
		expiry:   make(map[string]time.Time),
		client:   client,
		cacheTTL: time.Hour,
		enabled:  enabled,
	}
}

// IsAllowed reports whether userAgent may fetch rawURL.
func (r *RobotsChecker) IsAllowed(userAgent, rawURL string) (bool, error) {
	if !r.enabled {
		return true, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false, err
	}

	origin := u.Scheme + "://" + u.Host
	data, err := r.getRobots(origin)
	if err != nil {
		return true, nil
	}

	return data.FindGroup(userAgent).Test(u.Path), nil
}

// CrawlDelay returns the delay robots.txt requests for userAgent on origin,
// zero when unspecified.
func (r *RobotsChecker) CrawlDelay(userAgent, origin string) time.Duration {
	if !r.enabled {
		return 0
	}
	data, err := r.getRobots(origin)
	if err != nil {
		return 0
	}
	return data.FindGroup(userAgent).CrawlDelay
}

func (r *RobotsChecker) getRobots(origin string) (*robotstxt.RobotsData, error) {
	r.mu.RLock()
	data, ok := r.rules[origin]
	exp, expOK := r.expiry[origin]
	r.mu.RUnlock()

	if ok && expOK && time.Now().Before(exp) {
		return data, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if data, ok := r.rules[origin]; ok {
		if exp, ok := r.expiry[origin]; ok && time.Now().Before(exp) {
			return data, nil
		}
	}

	resp, err := r.client.Get(origin + "/robots.txt")
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read robots.txt: %w", err)
	}

	data, err = robotstxt.FromBytes(body)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.rules[origin] = data
	r.expiry[origin] = time.Now().Add(r.cacheTTL)
	return data, nil
}
