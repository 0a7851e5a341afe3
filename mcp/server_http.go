package mcp

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/nohype/nohype/internal/app"
	"github.com/nohype/nohype/internal/router"
)

// ServeHTTP starts the MCP server over HTTP with optional Bearer token auth.
// Besides /mcp it serves POST /v1/messages, the typed envelope endpoint the
// browser-side clients use directly.
func ServeHTTP(a *app.App, addr, apiKey string) error {
	s := server.NewMCPServer(
		"nohype",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, a)

	httpServer := server.NewStreamableHTTPServer(s, server.WithStateLess(true))

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	var mcpHandler http.Handler = httpServer
	var msgHandler http.Handler = messagesHandler(a.Router)
	if apiKey != "" {
		mcpHandler = bearerAuth(apiKey, mcpHandler)
		msgHandler = bearerAuth(apiKey, msgHandler)
	}
	mux.Handle("/mcp", mcpHandler)
	mux.Handle("POST /v1/messages", msgHandler)

	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	a.Log.Info("HTTP server listening", "addr", addr)
	return srv.ListenAndServe()
}

// messagesHandler adapts the message router to HTTP. Malformed JSON is the
// only transport-level failure; everything else, unknown types included,
// comes back as a 200 with an error envelope.
func messagesHandler(r *router.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var msg router.Message
		if err := json.NewDecoder(req.Body).Decode(&msg); err != nil {
			http.Error(w, `{"success":false,"error":"malformed message"}`, http.StatusBadRequest)
			return
		}

		resp := r.Handle(req.Context(), msg)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
}

func bearerAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mcp"`)
			http.Error(w, `{"error":"missing Authorization header"}`, http.StatusUnauthorized)
			return
		}
		token, found := strings.CutPrefix(auth, "Bearer ")
		if !found || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mcp", error="invalid_token"`)
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
