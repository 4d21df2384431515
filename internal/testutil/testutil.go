// Package testutil provides shared helpers for package tests.
package testutil

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
)

// FakeUpstream is an httptest server standing in for the weather provider.
// It records every request it receives.
type FakeUpstream struct {
	server *httptest.Server
	calls  atomic.Int64

	mu        sync.Mutex
	status    int
	body      []byte
	lastQuery url.Values
}

// NewFakeUpstream starts a fake provider answering with status and body.
// The server is closed when the test ends.
func NewFakeUpstream(t testing.TB, status int, body string) *FakeUpstream {
	t.Helper()

	f := &FakeUpstream{status: status, body: []byte(body)}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)

	return f
}

func (f *FakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)

	f.mu.Lock()
	f.lastQuery = r.URL.Query()
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Respond changes the canned response.
func (f *FakeUpstream) Respond(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.body = []byte(body)
}

// URL returns the base URL of the fake provider.
func (f *FakeUpstream) URL() string {
	return f.server.URL
}

// Calls returns the number of requests received so far.
func (f *FakeUpstream) Calls() int64 {
	return f.calls.Load()
}

// LastQuery returns the query parameters of the most recent request.
func (f *FakeUpstream) LastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

// ClosedURL returns the URL of a server that has already been shut down,
// so connections to it are refused.
func ClosedURL(t testing.TB) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	u := srv.URL
	srv.Close()
	return u
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
