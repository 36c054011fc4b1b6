package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/fumist/webdrift/internal/fetch"
)

// ManifestName is the conventionally named resource probed under the
// seed address before a crawl begins.
const ManifestName = "llms.txt"

// ManifestProber performs the one-shot best-effort probe for a
// manifest file under a base address. A usable manifest short-circuits
// the whole crawl.
type ManifestProber struct {
	// fetcher performs the single probe fetch.
	fetcher PageFetcher

	// out receives the probe status lines and, on success, the
	// manifest text.
	out io.Writer

	// logger records probe diagnostics.
	logger *slog.Logger
}

// ManifestProberOption configures a ManifestProber.
type ManifestProberOption func(*ManifestProber)

// WithProberLogger sets the logger for probe diagnostics.
func WithProberLogger(logger *slog.Logger) ManifestProberOption {
	return func(p *ManifestProber) {
		p.logger = logger
	}
}

// NewManifestProber creates a ManifestProber writing to out.
func NewManifestProber(fetcher PageFetcher, out io.Writer, opts ...ManifestProberOption) *ManifestProber {
	p := &ManifestProber{
		fetcher: fetcher,
		out:     out,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ManifestURL resolves the manifest name under baseAddr. The base is
// forced to end with a path separator first, so the manifest is looked
// up under the given path rather than beside it: probing
// "http://host/docs" checks "http://host/docs/llms.txt".
func ManifestURL(baseAddr string) (string, error) {
	base := baseAddr
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base address %q: %w", baseAddr, err)
	}

	ref, err := url.Parse(ManifestName)
	if err != nil {
		return "", err
	}

	return u.ResolveReference(ref).String(), nil
}

// Probe fetches the manifest candidate once and reports whether it
// counts as found. Fetch failures and unusable responses both return
// false; there are no retries.
//
// A response counts as found only when the declared content type
// contains "text" (any case) and the decoded body has non-whitespace
// content. On success the manifest's resolved address, byte size, and
// full text are written to the output sink.
func (p *ManifestProber) Probe(ctx context.Context, baseAddr string) bool {
	target, err := ManifestURL(baseAddr)
	if err != nil {
		p.logger.Debug("manifest URL construction failed", "base", baseAddr, "error", err)
		fmt.Fprintf(p.out, "[INFO] No accessible %s found at this URL.\n", ManifestName)
		return false
	}

	fmt.Fprintf(p.out, "[INFO] Checking for %s at %s\n", ManifestName, target)

	page, err := p.fetcher.Fetch(ctx, target)
	if err != nil {
		p.logger.Debug("manifest probe fetch failed", "url", target, "error", err)
		fmt.Fprintf(p.out, "[INFO] No accessible %s found at this URL.\n", ManifestName)
		return false
	}

	if !strings.Contains(strings.ToLower(page.ContentType), "text") || strings.TrimSpace(page.Text) == "" {
		fmt.Fprintf(p.out, "[INFO] %s not in expected text format, ignoring.\n", ManifestName)
		return false
	}

	rule := strings.Repeat("#", 80)
	fmt.Fprintf(p.out, "\n%s\n", rule)
	fmt.Fprintf(p.out, "[FOUND] %s at %s (%d bytes)\n", ManifestName, page.FinalURL, page.ByteSize)
	fmt.Fprintf(p.out, "%s\n\n", rule)
	fmt.Fprintln(p.out, page.Text)
	fmt.Fprintf(p.out, "\n%s\n", rule)
	fmt.Fprintf(p.out, "[INFO] Stopping crawl because %s was found and read.\n", ManifestName)
	fmt.Fprintf(p.out, "%s\n\n", rule)

	return true
}

// fetch.Fetcher is the production PageFetcher.
var _ PageFetcher = (*fetch.Fetcher)(nil)
