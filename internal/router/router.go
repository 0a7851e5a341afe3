// Package router dispatches typed message envelopes to the analysis service.
// It is the wire surface the HTTP server exposes; any client that can POST a
// JSON envelope can drive an analysis.
package router

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nohype/nohype/internal/analysis"
	"github.com/nohype/nohype/internal/models"
)

// Message types. The set is closed: anything else gets the unknown-type
// error response.
const (
	TypeProductData    = "PRODUCT_DATA"
	TypeAnalyzeProduct = "ANALYZE_PRODUCT"
	TypeGetProductData = "GET_PRODUCT_DATA"
	TypeAnalysisResult = "ANALYSIS_RESULT"
)

// Message is the request envelope.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response is the reply envelope. Success and Error are mutually exclusive.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Router holds the most recent product snapshot and result alongside the
// analysis service, mirroring how a page context and its worker exchange
// state.
type Router struct {
	service *analysis.Service
	log     *slog.Logger

	mu         sync.RWMutex
	lastData   *models.ProductData
	lastResult *models.AnalysisResult
}

func New(service *analysis.Service, log *slog.Logger) *Router {
	return &Router{service: service, log: log.With("component", "router")}
}

// Handle dispatches one message. Errors never escape as Go errors; every
// outcome is a Response so the wire contract stays uniform.
func (r *Router) Handle(ctx context.Context, msg Message) Response {
	r.log.Debug("message received", "type", msg.Type)

	switch msg.Type {
	case TypeProductData:
		return r.handleProductData(msg.Payload)
	case TypeAnalyzeProduct:
		return r.handleAnalyzeProduct(ctx, msg.Payload)
	case TypeGetProductData:
		return r.handleGetProductData()
	case TypeAnalysisResult:
		return r.handleAnalysisResult(msg.Payload)
	default:
		return Response{Success: false, Error: "Unknown message type"}
	}
}

// handleProductData records a freshly extracted snapshot.
func (r *Router) handleProductData(payload json.RawMessage) Response {
	var product models.ProductData
	if err := json.Unmarshal(payload, &product); err != nil {
		return errorResponse(fmt.Errorf("decode product data: %w", err))
	}

	r.mu.Lock()
	r.lastData = &product
	r.mu.Unlock()

	return Response{Success: true}
}

// handleAnalyzeProduct runs the full analysis pipeline on the payload
// snapshot. With an empty payload it falls back to the last recorded one.
func (r *Router) handleAnalyzeProduct(ctx context.Context, payload json.RawMessage) Response {
	var product models.ProductData
	if len(payload) > 0 && string(payload) != "null" {
		if err := json.Unmarshal(payload, &product); err != nil {
			return errorResponse(fmt.Errorf("decode product data: %w", err))
		}
	} else {
		r.mu.RLock()
		last := r.lastData
		r.mu.RUnlock()
		if last == nil {
			return Response{Success: false, Error: "no product data available"}
		}
		product = *last
	}

	result, _, err := r.service.Analyze(ctx, product)
	if err != nil {
		return errorResponse(err)
	}

	r.mu.Lock()
	r.lastResult = result
	r.mu.Unlock()

	return Response{Success: true, Data: result}
}

// handleGetProductData returns the last recorded snapshot, nil data when
// nothing has been recorded yet.
func (r *Router) handleGetProductData() Response {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Response{Success: true, Data: r.lastData}
}

// handleAnalysisResult records a result computed elsewhere, making it
// available to later GetResult calls.
func (r *Router) handleAnalysisResult(payload json.RawMessage) Response {
	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return errorResponse(fmt.Errorf("decode analysis result: %w", err))
	}

	r.mu.Lock()
	r.lastResult = &result
	r.mu.Unlock()

	return Response{Success: true}
}

// LastResult returns the most recent analysis outcome, however it arrived.
func (r *Router) LastResult() *models.AnalysisResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastResult
}

func errorResponse(err error) Response {
	return Response{Success: false, Error: err.Error()}
}
