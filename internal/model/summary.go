package model

import "time"

// CrawlSummary aggregates what happened during one crawl invocation.
// It is filled in by the crawl loop and rendered by the report package
// after the loop ends or is interrupted.
type CrawlSummary struct {
	// Seed is the starting address of the crawl.
	Seed string `json:"seed"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the crawl ran.
	Duration time.Duration `json:"duration"`

	// ManifestChecked reports whether the llms.txt probe ran.
	ManifestChecked bool `json:"manifest_checked"`

	// ManifestFound reports whether the probe found a usable manifest.
	// When true the crawl loop never started.
	ManifestFound bool `json:"manifest_found"`

	// PagesFetched counts pages that passed the content-type gate and
	// were streamed and link-extracted.
	PagesFetched int `json:"pages_fetched"`

	// PagesSkipped counts pages rejected by the content-type gate.
	PagesSkipped int `json:"pages_skipped"`

	// FetchErrors counts addresses whose fetch failed.
	FetchErrors int `json:"fetch_errors"`

	// LinksDiscovered is the total number of links extracted across
	// all pages, after per-page deduplication. The same address may be
	// counted many times across pages; the crawl keeps no history.
	LinksDiscovered int `json:"links_discovered"`

	// QueueRemaining is the number of addresses still queued when the
	// crawl stopped. Nonzero only on interruption, since a cyclic link
	// graph never drains the queue on its own.
	QueueRemaining int `json:"queue_remaining"`

	// Interrupted reports whether the crawl was stopped by the user.
	Interrupted bool `json:"interrupted"`
}

// PagesProcessed returns the total number of dequeued addresses that
// produced any outcome at all.
func (s *CrawlSummary) PagesProcessed() int {
	return s.PagesFetched + s.PagesSkipped + s.FetchErrors
}
