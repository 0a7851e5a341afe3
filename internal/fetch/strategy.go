// Package fetch retrieves rendered product pages. A plain HTTP GET is raced
// first; when the marketplace serves a JS shell instead of markup, a headless
// browser renders the page as the slow fallback.
package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/nohype/nohype/internal/httputil"
)

// Strategy is one way of turning a URL into rendered HTML.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// StaticStrategy fetches the page with a plain GET. Fast, but marketplaces
// that render client-side return a near-empty shell.
type StaticStrategy struct {
	client *http.Client
}

func NewStaticStrategy(client *http.Client) *StaticStrategy {
	return &StaticStrategy{client: client}
}

func (s *StaticStrategy) Name() string { return "static" }

func (s *StaticStrategy) Fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header = httputil.BrowserHeaders()

	resp, err := httputil.DoWithRetry(s.client, req, 2)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}

	body, err := httputil.ReadBody(resp)
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}
	return string(body), nil
}
