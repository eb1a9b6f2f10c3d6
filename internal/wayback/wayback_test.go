package wayback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gng-archive-api/internal/config"
	"github.com/rs/zerolog"
)

func newTestClient(baseURL string, enabled bool) *Client {
	return NewClient(&config.WaybackConfig{
		Enabled: enabled,
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	}, zerolog.Nop())
}

func TestSubmit(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, true)
	mirror := c.Submit(context.Background(), "https://example.com/article")

	if gotPath != "/save/https://example.com/article" {
		t.Errorf("Unexpected save path %q", gotPath)
	}
	if mirror != srv.URL+"/web/https://example.com/article" {
		t.Errorf("Unexpected mirror URL %q", mirror)
	}
}

func TestSubmit_ServerErrorReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, true)
	if mirror := c.Submit(context.Background(), "https://example.com/x"); mirror != "" {
		t.Errorf("5xx should yield empty mirror, got %q", mirror)
	}
}

func TestSubmit_ClientErrorStillMirrors(t *testing.T) {
	// The archive returns 4xx for pages it has already snapshotted recently;
	// the mirror URL is still valid.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, true)
	if mirror := c.Submit(context.Background(), "https://example.com/x"); mirror == "" {
		t.Error("4xx should still yield a mirror URL")
	}
}

func TestSubmit_Skips(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tests := []struct {
		name    string
		client  *Client
		url     string
	}{
		{"disabled", newTestClient(srv.URL, false), "https://example.com/x"},
		{"empty url", newTestClient(srv.URL, true), ""},
		{"localhost", newTestClient(srv.URL, true), "http://localhost:3000/page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if mirror := tt.client.Submit(context.Background(), tt.url); mirror != "" {
				t.Errorf("Expected empty mirror, got %q", mirror)
			}
		})
	}
	if called {
		t.Error("Skipped submissions must not hit the network")
	}
}

func TestSubmit_UnreachableHost(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", true)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if mirror := c.Submit(ctx, "https://example.com/x"); mirror != "" {
		t.Errorf("Network failure should yield empty mirror, got %q", mirror)
	}
}
