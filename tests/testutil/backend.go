package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Backend is a fake Rejimde API for client tests. Handlers are
// registered per path and responses are wrapped in the standard
// {status, data} envelope.
type Backend struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	requests []string
}

// NewBackend starts a fake backend. It shuts down when the test
// completes.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	b := &Backend{
		t:        t,
		handlers: make(map[string]http.HandlerFunc),
	}
	b.server = httptest.NewServer(http.HandlerFunc(b.route))
	t.Cleanup(b.server.Close)
	return b
}

// URL returns the fake backend's base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// Handle registers a handler for a path.
func (b *Backend) Handle(path string, handler http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[path] = handler
}

// Respond registers a handler that wraps data in a success envelope.
func (b *Backend) Respond(path string, data interface{}) {
	b.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		WriteSuccess(w, data)
	})
}

// RespondError registers a handler that returns the given status code.
func (b *Backend) RespondError(path string, statusCode int) {
	b.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(statusCode)
	})
}

// Requests returns the paths requested so far, in order.
func (b *Backend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	paths := make([]string, len(b.requests))
	copy(paths, b.requests)
	return paths
}

func (b *Backend) route(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.URL.Path)
	handler, ok := b.handlers[r.URL.Path]
	b.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	handler(w, r)
}

// WriteSuccess writes a success envelope around data.
func WriteSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

// Token implements api.TokenSource.
func (s StaticToken) Token() string { return string(s) }
