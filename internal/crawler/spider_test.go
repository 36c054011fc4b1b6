package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/fumist/webdrift/internal/model"
)

// fakeFetcher serves canned pages and errors by address and records
// every fetch in order. onFetch, if set, is called after each fetch
// with the running call count.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]*model.Page
	errs    map[string]error
	calls   []string
	onFetch func(count int)
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (*model.Page, error) {
	f.mu.Lock()
	f.calls = append(f.calls, rawURL)
	count := len(f.calls)
	f.mu.Unlock()

	if f.onFetch != nil {
		f.onFetch(count)
	}

	if err, ok := f.errs[rawURL]; ok {
		return nil, err
	}
	if page, ok := f.pages[rawURL]; ok {
		return page, nil
	}
	return nil, fmt.Errorf("no response configured for %s", rawURL)
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// htmlPage builds a crawlable page whose body links to the given targets.
func htmlPage(addr string, targets ...string) *model.Page {
	var sb strings.Builder
	sb.WriteString("<html><body>\n")
	for _, target := range targets {
		fmt.Fprintf(&sb, "<a href=%q>link</a>\n", target)
	}
	sb.WriteString("</body></html>\n")

	return &model.Page{
		URL:         addr,
		FinalURL:    addr,
		StatusCode:  200,
		ContentType: "text/html; charset=utf-8",
		Text:        sb.String(),
		ByteSize:    sb.Len(),
	}
}

// memoryJournal collects records in memory.
type memoryJournal struct {
	records []*model.FetchRecord
	err     error
}

func (j *memoryJournal) RecordFetch(_ context.Context, rec *model.FetchRecord) error {
	j.records = append(j.records, rec)
	return j.err
}

// newTestSpider wires a spider with pacing and streaming delays off.
func newTestSpider(f *fakeFetcher, out, errOut *bytes.Buffer, opts ...SpiderOption) *Spider {
	streamer := NewStreamer(out, WithLineDelay(0))
	prober := NewManifestProber(f, out)
	base := []SpiderOption{WithDelay(0), WithErrorOutput(errOut)}
	return NewSpider(f, streamer, prober, out, append(base, opts...)...)
}

// TestSpiderRun tests the crawl loop.
func TestSpiderRun(t *testing.T) {
	t.Parallel()

	t.Run("queue drains when pages have no links", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		f := &fakeFetcher{pages: map[string]*model.Page{seed: htmlPage(seed)}}

		var out, errOut bytes.Buffer
		summary, err := newTestSpider(f, &out, &errOut).Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if summary.PagesFetched != 1 {
			t.Errorf("expected 1 page fetched, got %d", summary.PagesFetched)
		}
		if summary.QueueRemaining != 0 {
			t.Errorf("expected empty queue, got %d", summary.QueueRemaining)
		}
		if !strings.Contains(out.String(), "[INFO] Fetched http://a.test/") {
			t.Errorf("expected fetch summary, got %q", out.String())
		}
	})

	t.Run("fetch error does not stop the crawl", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		f := &fakeFetcher{
			pages: map[string]*model.Page{
				seed:               htmlPage(seed, "http://a.test/broken", "http://a.test/ok"),
				"http://a.test/ok": htmlPage("http://a.test/ok"),
			},
			errs: map[string]error{
				"http://a.test/broken": errors.New("connection refused"),
			},
		}

		var out, errOut bytes.Buffer
		summary, err := newTestSpider(f, &out, &errOut).Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if summary.FetchErrors != 1 {
			t.Errorf("expected 1 fetch error, got %d", summary.FetchErrors)
		}
		if summary.PagesFetched != 2 {
			t.Errorf("expected the page after the failure to be fetched, got %d", summary.PagesFetched)
		}
		if !strings.Contains(errOut.String(), "[ERROR] Failed to fetch http://a.test/broken") {
			t.Errorf("expected failure on the error sink, got %q", errOut.String())
		}
		if strings.Contains(out.String(), "[ERROR]") {
			t.Error("fetch errors must not appear on the output sink")
		}
	})

	t.Run("content-type gate skips stylesheets and binaries", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		css := &model.Page{
			URL: "http://a.test/style.css", FinalURL: "http://a.test/style.css",
			StatusCode: 200, ContentType: "text/css",
			Text: `body { background: url("/never.html") }`, ByteSize: 40,
		}
		bin := &model.Page{
			URL: "http://a.test/blob", FinalURL: "http://a.test/blob",
			StatusCode: 200, ContentType: "application/octet-stream",
			Text: `<a href="/never2.html">x</a>`, ByteSize: 28,
		}
		f := &fakeFetcher{pages: map[string]*model.Page{
			seed:                      htmlPage(seed, "http://a.test/style.css", "http://a.test/blob"),
			"http://a.test/style.css": css,
			"http://a.test/blob":      bin,
		}}

		var out, errOut bytes.Buffer
		summary, err := newTestSpider(f, &out, &errOut).Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if summary.PagesSkipped != 2 {
			t.Errorf("expected 2 skipped pages, got %d", summary.PagesSkipped)
		}
		if strings.Contains(out.String(), "never.html") || strings.Contains(out.String(), "never2.html") {
			t.Error("skipped pages must not be streamed or extracted")
		}
		if !strings.Contains(out.String(), "[SKIP] http://a.test/style.css (Content-Type: text/css)") {
			t.Errorf("expected skip report, got %q", out.String())
		}
	})

	t.Run("cyclic links are re-enqueued without deduplication", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		ctx, cancel := context.WithCancel(context.Background())
		f := &fakeFetcher{pages: map[string]*model.Page{seed: htmlPage(seed, seed)}}
		f.onFetch = func(count int) {
			if count >= 5 {
				cancel()
			}
		}

		var out, errOut bytes.Buffer
		summary, err := newTestSpider(f, &out, &errOut).Run(ctx, seed)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}

		if f.callCount() < 5 {
			t.Errorf("expected the seed to be refetched, got %d fetches", f.callCount())
		}
		if !summary.Interrupted {
			t.Error("expected summary to record the interrupt")
		}
		if summary.QueueRemaining == 0 {
			t.Error("expected the cyclic queue to still hold entries")
		}
		if !strings.Contains(out.String(), "[INFO] Stopped by user.") {
			t.Errorf("expected stop notice, got tail %q", out.String())
		}
	})

	t.Run("only http and https links are enqueued", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		f := &fakeFetcher{pages: map[string]*model.Page{
			seed: htmlPage(seed,
				"mailto:x@a.test",
				"ftp://a.test/file",
				"javascript:void(0)",
				"https://a.test/next",
			),
			"https://a.test/next": htmlPage("https://a.test/next"),
		}}

		var out, errOut bytes.Buffer
		if _, err := newTestSpider(f, &out, &errOut).Run(context.Background(), seed); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if f.callCount() != 2 {
			t.Errorf("expected exactly 2 fetches (seed and https link), got %v", f.calls)
		}
	})

	t.Run("manifest hit prevents the loop from starting", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		f := &fakeFetcher{pages: map[string]*model.Page{
			"http://a.test/llms.txt": {
				URL: "http://a.test/llms.txt", FinalURL: "http://a.test/llms.txt",
				StatusCode: 200, ContentType: "text/plain",
				Text: "# manifest\ncontent\n", ByteSize: 19,
			},
			// The seed page would loop forever if the loop started.
			seed: htmlPage(seed, seed),
		}}

		var out, errOut bytes.Buffer
		summary, err := newTestSpider(f, &out, &errOut, WithManifestCheck(true)).Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if !summary.ManifestFound {
			t.Fatal("expected manifest to be found")
		}
		if summary.PagesFetched != 0 {
			t.Errorf("expected no pages fetched after manifest hit, got %d", summary.PagesFetched)
		}
		if f.callCount() != 1 {
			t.Errorf("expected only the probe fetch, got %v", f.calls)
		}
	})

	t.Run("failed manifest probe falls through to the loop", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		f := &fakeFetcher{
			pages: map[string]*model.Page{seed: htmlPage(seed)},
			errs:  map[string]error{"http://a.test/llms.txt": errors.New("404")},
		}

		var out, errOut bytes.Buffer
		summary, err := newTestSpider(f, &out, &errOut, WithManifestCheck(true)).Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}

		if summary.ManifestFound {
			t.Error("expected manifest miss")
		}
		if !summary.ManifestChecked {
			t.Error("expected the probe to be recorded as checked")
		}
		if summary.PagesFetched != 1 {
			t.Errorf("expected the crawl to proceed, got %d pages", summary.PagesFetched)
		}
	})

	t.Run("journal records every outcome", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		f := &fakeFetcher{
			pages: map[string]*model.Page{
				seed: htmlPage(seed, "http://a.test/css", "http://a.test/down"),
				"http://a.test/css": {
					URL: "http://a.test/css", FinalURL: "http://a.test/css",
					StatusCode: 200, ContentType: "text/css", Text: "a{}", ByteSize: 3,
				},
			},
			errs: map[string]error{"http://a.test/down": errors.New("timeout")},
		}

		journal := &memoryJournal{}
		var out, errOut bytes.Buffer
		if _, err := newTestSpider(f, &out, &errOut, WithJournal(journal)).Run(context.Background(), seed); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		outcomes := make(map[string]int)
		for _, rec := range journal.records {
			outcomes[rec.Outcome]++
		}
		if outcomes[model.OutcomeFetched] != 1 || outcomes[model.OutcomeSkipped] != 1 || outcomes[model.OutcomeError] != 1 {
			t.Errorf("unexpected outcome distribution: %v", outcomes)
		}
	})

	t.Run("journal failures do not stop the crawl", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		f := &fakeFetcher{pages: map[string]*model.Page{seed: htmlPage(seed)}}
		journal := &memoryJournal{err: errors.New("disk full")}

		var out, errOut bytes.Buffer
		summary, err := newTestSpider(f, &out, &errOut, WithJournal(journal)).Run(context.Background(), seed)
		if err != nil {
			t.Fatalf("run failed: %v", err)
		}
		if summary.PagesFetched != 1 {
			t.Errorf("expected crawl to finish despite journal errors, got %d", summary.PagesFetched)
		}
	})

	t.Run("streamed page content appears on the output sink", func(t *testing.T) {
		t.Parallel()

		seed := "http://a.test/"
		page := &model.Page{
			URL: seed, FinalURL: seed, StatusCode: 200,
			ContentType: "text/html",
			Text:        "hello\n<style>\nh1{}\n</style>\nworld",
			ByteSize:    33,
		}
		f := &fakeFetcher{pages: map[string]*model.Page{seed: page}}

		var out, errOut bytes.Buffer
		if _, err := newTestSpider(f, &out, &errOut).Run(context.Background(), seed); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		got := out.String()
		if !strings.Contains(got, "hello") || !strings.Contains(got, "world") {
			t.Errorf("expected page text on output sink, got %q", got)
		}
		if strings.Contains(got, "h1{}") {
			t.Error("style content must not be streamed")
		}
	})
}
