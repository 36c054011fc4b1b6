package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/fumist/webdrift/internal/model"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeOutcomes(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary header with session information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H1("Webdrift Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + summary.Seed + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", summary.Duration.String()},
			{"Status", w.statusText(summary)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on how the session ended.
func (w *MarkdownWriter) statusText(summary *model.CrawlSummary) string {
	if summary.ManifestFound {
		return "📄 Manifest found (crawl not started)"
	}
	if summary.Interrupted {
		return "⚠️ Interrupted (partial results)"
	}
	return "✅ Complete"
}

// writeOutcomes writes the outcome counters and distribution chart.
func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Outcomes")
	md.PlainText("")

	rows := [][]string{
		{"Pages fetched", strconv.Itoa(summary.PagesFetched)},
		{"Pages skipped", strconv.Itoa(summary.PagesSkipped)},
		{"Fetch errors", strconv.Itoa(summary.FetchErrors)},
		{"Links discovered", strconv.Itoa(summary.LinksDiscovered)},
	}
	if summary.Interrupted {
		rows = append(rows, []string{"Queue remaining", strconv.Itoa(summary.QueueRemaining)})
	}
	rows = append(rows, []string{"**Total processed**", "**" + strconv.Itoa(summary.PagesProcessed()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if summary.PagesProcessed() > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.CrawlSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if summary.PagesFetched > 0 {
		chart.LabelAndIntValue("Fetched", uint64(summary.PagesFetched))
	}
	if summary.PagesSkipped > 0 {
		chart.LabelAndIntValue("Skipped", uint64(summary.PagesSkipped))
	}
	if summary.FetchErrors > 0 {
		chart.LabelAndIntValue("Errors", uint64(summary.FetchErrors))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the session outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.CrawlSummary) {
	switch {
	case summary.ManifestFound:
		md.Tip("An llms.txt manifest was found; its content replaces the page-by-page crawl.")
	case summary.FetchErrors > 0 && summary.PagesFetched == 0:
		md.Cautionf("Every fetch failed (%d errors). Check the seed URL and network.", summary.FetchErrors)
	case summary.FetchErrors > 0:
		md.Warningf("%d fetch(es) failed during the session.", summary.FetchErrors)
	case summary.Interrupted:
		md.Note("The session was interrupted; counts reflect work done before the stop.")
	default:
		md.Tip("The crawl drained its queue without errors.")
	}
	md.PlainText("")
}

// writeFooter writes the summary footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Summary generated by [webdrift](https://github.com/fumist/webdrift)*")
}
