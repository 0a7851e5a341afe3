// Package api talks to the remote analysis service. The service is optional;
// callers fall back to the local heuristic engine when it is unreachable.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nohype/nohype/internal/httputil"
	"github.com/nohype/nohype/internal/models"
)

// DefaultTimeout bounds one analyze call. There is no retry: by the time a
// second attempt finished the user would long since have the heuristic
// result.
const DefaultTimeout = 30 * time.Second

// Client calls the analysis API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the service at baseURL.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = httputil.NewClient(nil, DefaultTimeout)
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

type analyzeRequest struct {
	ProductData models.ProductData `json:"productData"`
	Options     analyzeOptions     `json:"options"`
}

type analyzeOptions struct {
	IncludeAlternatives bool `json:"includeAlternatives"`
	IncludePriceHistory bool `json:"includePriceHistory"`
}

type envelope struct {
	Success   bool                   `json:"success"`
	Data      *models.AnalysisResult `json:"data,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// Analyze submits a product snapshot and returns the service's verdict. Any
// failure (network, non-2xx, success=false envelope) comes back as an error
// for the caller to fall back on.
func (c *Client) Analyze(ctx context.Context, product models.ProductData) (*models.AnalysisResult, error) {
	body, err := json.Marshal(analyzeRequest{
		ProductData: product,
		Options: analyzeOptions{
			IncludeAlternatives: true,
			IncludePriceHistory: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header = httputil.JSONHeaders()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analysis api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("analysis api: HTTP %d", resp.StatusCode)
	}

	data, err := httputil.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read analyze response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode analyze response: %w", err)
	}
	if !env.Success || env.Data == nil {
		if env.Error == "" {
			env.Error = "unknown api error"
		}
		return nil, fmt.Errorf("analysis api: %s", env.Error)
	}
	return env.Data, nil
}
