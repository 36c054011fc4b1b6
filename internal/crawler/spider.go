package crawler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fumist/webdrift/internal/model"
)

// DefaultCrawlDelay is the pacing delay between queue items. It is a
// politeness placeholder, not a correctness requirement.
const DefaultCrawlDelay = 500 * time.Millisecond

// PageFetcher retrieves one absolute URL. It is satisfied by
// fetch.Fetcher; tests substitute fakes.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.Page, error)
}

// Journal records fetch outcomes for later inspection. Implementations
// must not influence traversal; the journal persists results, never
// crawl state.
type Journal interface {
	RecordFetch(ctx context.Context, rec *model.FetchRecord) error
}

// Spider drives the breadth-first traversal. It owns the FIFO work
// queue and the single thread of control; no locking is needed because
// nothing else touches its state.
//
// Design decision: There is deliberately NO visited set. Every
// extracted http(s) link is enqueued even if it was fetched before, so
// a cyclic link graph revisits addresses indefinitely. Adding
// deduplication would change observable behavior; do not "fix" this.
type Spider struct {
	// fetcher is the external HTTP collaborator.
	fetcher PageFetcher

	// streamer emits page text to the output sink.
	streamer *Streamer

	// prober runs the optional manifest short-circuit.
	prober *ManifestProber

	// out is the output sink for status lines.
	out io.Writer

	// errOut is the error sink for fetch-failure diagnostics.
	errOut io.Writer

	// logger records structured diagnostics.
	logger *slog.Logger

	// delay is the pacing delay applied between queue items.
	delay time.Duration

	// journal records fetch outcomes when non-nil.
	journal Journal

	// checkManifest enables the manifest probe before the loop.
	checkManifest bool
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithDelay sets the pacing delay between queue items.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithErrorOutput sets the error sink. Defaults to io.Discard.
func WithErrorOutput(w io.Writer) SpiderOption {
	return func(s *Spider) {
		s.errOut = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithJournal sets the fetch journal. A nil journal disables recording.
func WithJournal(j Journal) SpiderOption {
	return func(s *Spider) {
		s.journal = j
	}
}

// WithManifestCheck enables the llms.txt probe before the crawl loop.
// A successful probe prevents the loop from ever starting.
func WithManifestCheck(check bool) SpiderOption {
	return func(s *Spider) {
		s.checkManifest = check
	}
}

// NewSpider creates a Spider. The fetcher, streamer, and prober are
// required collaborators; out receives status lines and streamed text.
func NewSpider(fetcher PageFetcher, streamer *Streamer, prober *ManifestProber, out io.Writer, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:  fetcher,
		streamer: streamer,
		prober:   prober,
		out:      out,
		errOut:   io.Discard,
		logger:   slog.Default(),
		delay:    DefaultCrawlDelay,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Run crawls from seed until the queue empties or ctx is cancelled.
// The returned summary is always valid, including after interruption;
// the error is ctx.Err() when the crawl was stopped externally and nil
// otherwise.
func (s *Spider) Run(ctx context.Context, seed string) (*model.CrawlSummary, error) {
	summary := &model.CrawlSummary{
		Seed:            seed,
		StartedAt:       time.Now(),
		ManifestChecked: s.checkManifest,
	}
	defer func() {
		summary.Duration = time.Since(summary.StartedAt)
	}()

	if s.checkManifest && s.prober.Probe(ctx, seed) {
		summary.ManifestFound = true
		return summary, nil
	}

	queue := []string{seed}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return s.stopped(summary, queue), err
		}

		addr := queue[0]
		queue = queue[1:]

		page, err := s.fetcher.Fetch(ctx, addr)
		if err != nil {
			if ctx.Err() != nil {
				return s.stopped(summary, queue), ctx.Err()
			}
			fmt.Fprintf(s.errOut, "[ERROR] Failed to fetch %s: %v\n", addr, err)
			s.logger.Debug("fetch failed", "url", addr, "error", err)
			summary.FetchErrors++
			s.record(ctx, &model.FetchRecord{
				Address:   addr,
				Outcome:   model.OutcomeError,
				Error:     err.Error(),
				FetchedAt: time.Now(),
			})
			continue
		}

		if !page.IsCrawlable() {
			fmt.Fprintf(s.out, "[SKIP] %s (Content-Type: %s)\n", page.FinalURL, page.ContentType)
			summary.PagesSkipped++
			s.record(ctx, s.pageRecord(page, model.OutcomeSkipped))
			continue
		}

		fmt.Fprintf(s.out, "[INFO] Fetched %s (%d bytes, %s)\n", page.FinalURL, page.ByteSize, page.ContentType)
		summary.PagesFetched++
		s.record(ctx, s.pageRecord(page, model.OutcomeFetched))

		if err := s.streamer.Stream(ctx, page.FinalURL, page.Text); err != nil {
			return s.stopped(summary, queue), err
		}

		links := ExtractLinks(page.FinalURL, page.Text)
		fmt.Fprintf(s.out, "[INFO] Found %d links on %s\n", len(links), page.FinalURL)
		summary.LinksDiscovered += len(links)

		for _, link := range links {
			u, err := url.Parse(link)
			if err != nil {
				continue
			}
			if u.Scheme == "http" || u.Scheme == "https" {
				// Intentionally no visited check: revisits are part of
				// the traversal contract.
				queue = append(queue, link)
			}
		}

		if s.delay > 0 && len(queue) > 0 {
			select {
			case <-ctx.Done():
				return s.stopped(summary, queue), ctx.Err()
			case <-time.After(s.delay):
			}
		}
	}

	return summary, nil
}

// stopped finalizes the summary after an interrupt and prints the
// user-stop notice.
func (s *Spider) stopped(summary *model.CrawlSummary, queue []string) *model.CrawlSummary {
	summary.Interrupted = true
	summary.QueueRemaining = len(queue)
	fmt.Fprintln(s.out, "\n[INFO] Stopped by user.")
	return summary
}

// pageRecord builds a journal record from a fetched page.
func (s *Spider) pageRecord(page *model.Page, outcome string) *model.FetchRecord {
	return &model.FetchRecord{
		Address:      page.URL,
		FinalAddress: page.FinalURL,
		StatusCode:   page.StatusCode,
		ContentType:  page.ContentType,
		ByteSize:     page.ByteSize,
		Outcome:      outcome,
		FetchedAt:    time.Now(),
	}
}

// record writes a journal entry if a journal is configured. Journal
// failures are logged and otherwise ignored; persistence must never
// stop the crawl.
func (s *Spider) record(ctx context.Context, rec *model.FetchRecord) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordFetch(ctx, rec); err != nil {
		s.logger.Warn("journal write failed",
			"url", rec.Address,
			"outcome", strings.ToLower(rec.Outcome),
			"error", err,
		)
	}
}
