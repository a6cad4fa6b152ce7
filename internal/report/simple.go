package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/contactcrawl/internal/model"
)

const (
	// bannerWidth is the width of the section rules.
	bannerWidth = 70

	// durationPrecision is the rounding applied to printed durations.
	durationPrecision = time.Millisecond
)

// SimpleWriter outputs human-readable text for terminal display.
// Sections are separated with plain ASCII rules so the output can be
// piped to files or other tools unchanged.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with nothing to list are shown.
	showEmpty bool

	// verbose lists every crawled page instead of only pages with contacts.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

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
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one block per page record.
func (w *SimpleWriter) Write(results *model.ResultSet) (int, error) {
	var sb strings.Builder

	records := orEmpty(results).Records()
	if len(records) == 0 {
		sb.WriteString("No pages collected\n")
		return w.output.Write([]byte(sb.String()))
	}

	for i, rec := range records {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, rec.URL)
		if rec.Title != "" {
			fmt.Fprintf(&sb, "    Title:   %s\n", rec.Title)
		}
		if rec.Preview != "" {
			fmt.Fprintf(&sb, "    Preview: %s\n", rec.Preview)
		}
		if len(rec.Emails) > 0 {
			fmt.Fprintf(&sb, "    Emails:  %s\n", strings.Join(rec.Emails, ", "))
		}
		if len(rec.Phones) > 0 {
			fmt.Fprintf(&sb, "    Phones:  %s\n", strings.Join(rec.Phones, ", "))
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs the end-of-run summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeList(&sb, "EMAILS", summary.Emails, "No emails found")
	w.writeList(&sb, "PHONES", summary.Phones, "No phone numbers found")
	w.writePages(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the banner and the crawl statistics.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n")
	sb.WriteString("                       CONTACTCRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n\n")

	if summary.RunID != "" {
		fmt.Fprintf(sb, "Run ID:             %s\n", summary.RunID)
	}
	fmt.Fprintf(sb, "Seed URL:           %s\n", summary.SeedURL)
	fmt.Fprintf(sb, "Crawl Date:         %s\n", summary.DateCrawled.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:           %s\n", summary.Duration.Round(durationPrecision))
	fmt.Fprintf(sb, "Pages Crawled:      %d\n", summary.PagesCrawled)
	fmt.Fprintf(sb, "Pages w/ Contacts:  %d\n", summary.PagesWithContacts)
	if summary.OutputFile != "" {
		fmt.Fprintf(sb, "Results File:       %s\n", summary.OutputFile)
	}
	sb.WriteString("\n")
}

// writeSection writes a titled section rule.
func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", bannerWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", bannerWidth))
	sb.WriteString("\n\n")
}

// writeList writes a section listing values, one per line.
func (w *SimpleWriter) writeList(sb *strings.Builder, title string, values []string, empty string) {
	if len(values) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, fmt.Sprintf("%s (%d)", title, len(values)))

	if len(values) == 0 {
		fmt.Fprintf(sb, "  %s\n", empty)
	}
	for _, v := range values {
		fmt.Fprintf(sb, "  [+] %s\n", v)
	}
	sb.WriteString("\n")
}

// writePages writes the per-page table. Without verbose only pages with
// contacts are listed.
func (w *SimpleWriter) writePages(sb *strings.Builder, summary *model.Summary) {
	pages := make([]model.PageSummary, 0, len(summary.Pages))
	for _, p := range summary.Pages {
		if w.verbose || p.Contacts {
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 && !w.showEmpty {
		return
	}

	writeSection(sb, "PAGES")

	if len(pages) == 0 {
		sb.WriteString("  No pages with contacts\n\n")
		return
	}

	for _, p := range pages {
		fmt.Fprintf(sb, "  * %s\n", p.URL)
		if p.Title != "" {
			fmt.Fprintf(sb, "    Title: %s\n", p.Title)
		}
		fmt.Fprintf(sb, "    Emails: %d  Phones: %d\n", p.Emails, p.Phones)
	}
	sb.WriteString("\n")
}

// writeFooter writes the closing rule.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", bannerWidth))
	sb.WriteString("\n")
}
