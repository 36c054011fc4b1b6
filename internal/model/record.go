package model

import "time"

// Fetch outcomes recorded in the crawl journal.
const (
	// OutcomeFetched means the page was fetched and processed.
	OutcomeFetched = "fetched"

	// OutcomeSkipped means the page was fetched but rejected by the
	// content-type gate.
	OutcomeSkipped = "skipped"

	// OutcomeError means the fetch failed with a transport or
	// protocol error.
	OutcomeError = "error"
)

// FetchRecord is one journal entry describing the outcome of a single
// fetch. Records are persistence of results only; the crawl frontier
// itself is never persisted.
type FetchRecord struct {
	// Address is the address that was dequeued and requested.
	Address string `json:"address"`

	// FinalAddress is the post-redirect address. Empty when the fetch
	// failed before a response was obtained.
	FinalAddress string `json:"final_address,omitempty"`

	// StatusCode is the HTTP status code, or zero on transport failure.
	StatusCode int `json:"status_code,omitempty"`

	// ContentType is the declared content type of the response.
	ContentType string `json:"content_type,omitempty"`

	// ByteSize is the response body length in bytes.
	ByteSize int `json:"byte_size,omitempty"`

	// Outcome is one of OutcomeFetched, OutcomeSkipped, OutcomeError.
	Outcome string `json:"outcome"`

	// Error holds the fetch error message when Outcome is OutcomeError.
	Error string `json:"error,omitempty"`

	// FetchedAt is when the fetch completed.
	FetchedAt time.Time `json:"fetched_at"`
}
