package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fumist/webdrift/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display after a crawl session
// ends or is interrupted.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.CrawlSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeFooter(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the summary header with session information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.CrawlSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        WEBDRIFT CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Seed URL:   %s\n", summary.Seed))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", summary.Duration.Round(time.Millisecond)))

	switch {
	case summary.ManifestFound:
		sb.WriteString("Status:     Manifest found (crawl not started)\n")
	case summary.Interrupted:
		sb.WriteString("Status:     INTERRUPTED (partial results)\n")
	default:
		sb.WriteString("Status:     Complete\n")
	}

	sb.WriteString("\n")
}

// writeCounts writes the outcome counters.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.CrawlSummary) {
	sb.WriteString("Outcomes\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  Pages fetched:    %d\n", summary.PagesFetched))
	sb.WriteString(fmt.Sprintf("  Pages skipped:    %d\n", summary.PagesSkipped))
	sb.WriteString(fmt.Sprintf("  Fetch errors:     %d\n", summary.FetchErrors))
	sb.WriteString(fmt.Sprintf("  Links discovered: %d\n", summary.LinksDiscovered))

	if summary.Interrupted {
		sb.WriteString(fmt.Sprintf("  Queue remaining:  %d\n", summary.QueueRemaining))
	}

	if w.verbose {
		sb.WriteString(fmt.Sprintf("  Pages processed:  %d\n", summary.PagesProcessed()))
		if summary.ManifestChecked {
			sb.WriteString(fmt.Sprintf("  Manifest probe:   ran (found=%t)\n", summary.ManifestFound))
		} else {
			sb.WriteString("  Manifest probe:   skipped\n")
		}
	}

	sb.WriteString("\n")
}

// writeFooter writes the closing rule.
func (w *SimpleWriter) writeFooter(sb *strings.Builder, summary *model.CrawlSummary) {
	if summary.Interrupted && summary.QueueRemaining > 0 {
		sb.WriteString("Note: the queue never drains on cyclic sites; interruption is the\n")
		sb.WriteString("normal way a session ends.\n\n")
	}
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
