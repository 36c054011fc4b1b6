package model

import "testing"

// TestPageIsCrawlable tests the content-type gate classification.
func TestPageIsCrawlable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{name: "html", contentType: "text/html; charset=utf-8", want: true},
		{name: "xhtml", contentType: "application/xhtml+xml", want: true},
		{name: "plain text", contentType: "text/plain", want: true},
		{name: "xml", contentType: "application/xml", want: true},
		{name: "css is always skipped", contentType: "text/css", want: false},
		{name: "css with charset", contentType: "TEXT/CSS; charset=utf-8", want: false},
		{name: "binary", contentType: "application/octet-stream", want: false},
		{name: "image", contentType: "image/png", want: false},
		{name: "empty", contentType: "", want: false},
		{name: "case insensitive", contentType: "TEXT/HTML", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &Page{ContentType: tt.contentType}
			if got := p.IsCrawlable(); got != tt.want {
				t.Errorf("IsCrawlable() with %q = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

// TestPageGetHeader tests header lookup.
func TestPageGetHeader(t *testing.T) {
	t.Parallel()

	p := &Page{
		Headers: map[string][]string{
			"Content-Type": {"text/html", "ignored"},
		},
	}

	if got := p.GetHeader("Content-Type"); got != "text/html" {
		t.Errorf("expected first header value, got %q", got)
	}
	if got := p.GetHeader("X-Missing"); got != "" {
		t.Errorf("expected empty string for missing header, got %q", got)
	}
}

// TestCrawlSummaryPagesProcessed tests outcome accounting.
func TestCrawlSummaryPagesProcessed(t *testing.T) {
	t.Parallel()

	s := &CrawlSummary{PagesFetched: 3, PagesSkipped: 2, FetchErrors: 1}
	if got := s.PagesProcessed(); got != 6 {
		t.Errorf("PagesProcessed() = %d, want 6", got)
	}
}
