package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/fumist/webdrift/internal/model"
)

// Default values for a Fetcher. These mirror the crawl defaults in the
// config package; the fetcher keeps its own copies so it can be used
// standalone in tests.
const (
	// DefaultUserAgent identifies webdrift in HTTP requests.
	DefaultUserAgent = "webdrift/1.2 (+https://github.com/fumist/webdrift)"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is sufficient for any HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// StatusError reports a response with an error status code. It is
// distinguishable from transport failures so callers can tell "the
// server said no" from "the server never answered", though the crawl
// loop treats both the same way: log and continue.
type StatusError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the full status line, e.g. "404 Not Found".
	Status string

	// URL is the address that was requested.
	URL string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s fetching %s", e.Status, e.URL)
}

// Fetcher retrieves pages over HTTP.
//
// Design decision: We require an external http.Client rather than
// creating one internally because:
//  1. The timeout policy belongs to the caller
//  2. Tests can inject httptest clients or custom transports
//  3. Connection pooling can be shared if a caller ever wants it
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header to send.
	userAgent string

	// maxBodySize limits how many body bytes are read per response.
	maxBodySize int64

	// headers are extra headers added to every request, e.g. per-site
	// cookies or authorization from the config file.
	headers map[string]string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size in bytes.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithHeaders sets extra headers sent with every request.
// Header names must be in their canonical form.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// NewFetcher creates a Fetcher using the given HTTP client.
func NewFetcher(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves one absolute URL and returns the resulting page.
//
// Redirects are followed by the underlying client; FinalURL reflects
// where the response actually came from. Statuses of 400 and above are
// returned as a *StatusError. The body is read up to the configured
// size limit and decoded best-effort.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request for %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for name, value := range f.headers {
		req.Header.Set(name, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        rawURL,
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}

	contentType := resp.Header.Get("Content-Type")

	return &model.Page{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Headers:     resp.Header,
		Text:        DecodeText(body, contentType),
		ByteSize:    len(body),
	}, nil
}
