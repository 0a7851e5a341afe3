package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nohype/nohype/internal/models"
)

func TestAnalyze_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/analyze", r.URL.Path)

		var req map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "productData")
		assert.JSONEq(t, `{"includeAlternatives":true,"includePriceHistory":true}`, string(req["options"]))

		json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"data":      models.AnalysisResult{ID: "remote-1", HypeScore: 42, RiskLevel: models.RiskMedium},
			"timestamp": time.Now().UnixMilli(),
		})
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	result, err := c.Analyze(context.Background(), models.ProductData{Name: "Zegarek", Price: 100})
	require.NoError(t, err)
	assert.Equal(t, "remote-1", result.ID)
	assert.Equal(t, 42, result.HypeScore)
}

func TestAnalyze_ErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "model overloaded"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Analyze(context.Background(), models.ProductData{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model overloaded")
}

func TestAnalyze_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Analyze(context.Background(), models.ProductData{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestAnalyze_IsNotRetried(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).Analyze(context.Background(), models.ProductData{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestAnalyze_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL, srv.Client()).Analyze(ctx, models.ProductData{})
	assert.Error(t, err)
}
