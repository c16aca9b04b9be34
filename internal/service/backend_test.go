package service_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/storefront/admin-console/internal/apiclient"
)

type recorded struct {
	Method string
	Path   string
	Query  map[string][]string
	Body   string
	Header http.Header
}

// backend is a stub REST backend that records calls and replies per route.
type backend struct {
	srv    *httptest.Server
	mu     sync.Mutex
	calls  []recorded
	routes map[string]http.HandlerFunc
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{routes: map[string]http.HandlerFunc{}}
	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.calls = append(b.calls, recorded{
			Method: r.Method,
			Path:   r.URL.EscapedPath(),
			Query:  r.URL.Query(),
			Body:   string(raw),
			Header: r.Header.Clone(),
		})
		h, ok := b.routes[r.Method+" "+r.URL.EscapedPath()]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) on(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

func (b *backend) json(method, path string, status int, v any) {
	b.on(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	})
}

func (b *backend) raw(method, path string, status int, body string) {
	b.on(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (b *backend) last() recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.calls) == 0 {
		return recorded{}
	}
	return b.calls[len(b.calls)-1]
}

func (b *backend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *backend) client() *apiclient.Client {
	return apiclient.New(b.srv.URL+"/api", 5*time.Second)
}
