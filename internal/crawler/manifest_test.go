package crawler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fumist/webdrift/internal/fetch"
)

// TestManifestURL tests manifest candidate construction.
func TestManifestURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		want string
	}{
		{name: "trailing slash", base: "http://example.com/", want: "http://example.com/llms.txt"},
		{name: "no trailing slash", base: "http://example.com", want: "http://example.com/llms.txt"},
		{name: "path without slash resolves under the path", base: "http://example.com/docs", want: "http://example.com/docs/llms.txt"},
		{name: "path with slash", base: "http://example.com/docs/", want: "http://example.com/docs/llms.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ManifestURL(tt.base)
			if err != nil {
				t.Fatalf("ManifestURL(%q) failed: %v", tt.base, err)
			}
			if got != tt.want {
				t.Errorf("ManifestURL(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

// TestManifestProber tests the one-shot probe decision.
func TestManifestProber(t *testing.T) {
	t.Parallel()

	newProber := func(srv *httptest.Server, out *bytes.Buffer) *ManifestProber {
		return NewManifestProber(fetch.NewFetcher(srv.Client()), out)
	}

	t.Run("usable manifest is found and printed", func(t *testing.T) {
		t.Parallel()

		manifest := "# Site guide\n\nEverything an agent needs.\n"
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/llms.txt" {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if _, err := w.Write([]byte(manifest)); err != nil {
				t.Errorf("write: %v", err)
			}
		}))
		defer srv.Close()

		var out bytes.Buffer
		if !newProber(srv, &out).Probe(context.Background(), srv.URL) {
			t.Fatal("expected probe to succeed")
		}

		if !strings.Contains(out.String(), "[FOUND]") {
			t.Errorf("expected [FOUND] report, got %q", out.String())
		}
		if !strings.Contains(out.String(), "Everything an agent needs.") {
			t.Errorf("expected manifest text in output, got %q", out.String())
		}
	})

	t.Run("non-text content type is a format mismatch", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			if _, err := w.Write([]byte("binary-ish but decodable")); err != nil {
				t.Errorf("write: %v", err)
			}
		}))
		defer srv.Close()

		var out bytes.Buffer
		if newProber(srv, &out).Probe(context.Background(), srv.URL) {
			t.Fatal("expected probe to fail for octet-stream")
		}
		if !strings.Contains(out.String(), "not in expected text format") {
			t.Errorf("expected format mismatch report, got %q", out.String())
		}
	})

	t.Run("whitespace-only body is a format mismatch", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			if _, err := w.Write([]byte("   \n\t\n")); err != nil {
				t.Errorf("write: %v", err)
			}
		}))
		defer srv.Close()

		var out bytes.Buffer
		if newProber(srv, &out).Probe(context.Background(), srv.URL) {
			t.Fatal("expected probe to fail for empty manifest")
		}
	})

	t.Run("fetch failure reports not found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
		defer srv.Close()

		var out bytes.Buffer
		if newProber(srv, &out).Probe(context.Background(), srv.URL) {
			t.Fatal("expected probe to fail for 404")
		}
		if !strings.Contains(out.String(), "No accessible llms.txt") {
			t.Errorf("expected not-found report, got %q", out.String())
		}
	})

	t.Run("unreachable server reports not found", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		var out bytes.Buffer
		p := NewManifestProber(fetch.NewFetcher(&http.Client{}), &out)
		if p.Probe(context.Background(), srv.URL) {
			t.Fatal("expected probe to fail for unreachable server")
		}
	})
}
