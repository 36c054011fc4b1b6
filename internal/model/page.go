package model

import "strings"

// Page is the result of fetching a single address. It exists only for
// the duration of processing one queue item; nothing retains pages
// after their links have been extracted.
type Page struct {
	// URL is the address that was requested.
	URL string `json:"url"`

	// FinalURL is the resolved address after following redirects.
	FinalURL string `json:"final_url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the declared Content-Type header value.
	// Empty string if the header was absent.
	ContentType string `json:"content_type"`

	// Headers contains all HTTP response headers in canonical form.
	Headers map[string][]string `json:"headers,omitempty"`

	// Text is the decoded response body. Decoding is best-effort:
	// invalid sequences are replaced, never rejected.
	Text string `json:"-"`

	// ByteSize is the length of the response body in bytes, before
	// decoding.
	ByteSize int `json:"byte_size"`
}

// GetHeader returns the first value of the named header, or the empty
// string if the header is not present. Names are expected in canonical
// form as produced by net/http.
func (p *Page) GetHeader(name string) string {
	if values, ok := p.Headers[name]; ok && len(values) > 0 {
		return values[0]
	}
	return ""
}

// IsCrawlable reports whether the page passes the content-type gate:
// stylesheets are always skipped, and everything else must declare
// itself as html, xml, or text.
func (p *Page) IsCrawlable() bool {
	ct := strings.ToLower(p.ContentType)
	if strings.Contains(ct, "text/css") {
		return false
	}
	return strings.Contains(ct, "html") ||
		strings.Contains(ct, "xml") ||
		strings.Contains(ct, "text")
}
