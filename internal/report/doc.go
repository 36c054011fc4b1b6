// Package report renders crawl summaries in multiple output formats.
// The simple writer produces human-readable text for the terminal,
// the markdown writer produces GitHub Flavored Markdown with an
// outcome pie chart, and the JSON writer produces machine-readable
// output for tool integration.
package report
