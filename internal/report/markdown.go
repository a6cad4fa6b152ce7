package report

import (
	"io"
	"strconv"

	"github.com/nao1215/contactcrawl/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// Column widths applied to table cells.
const (
	maxURLWidth     = 60
	maxTitleWidth   = 40
	maxPreviewWidth = 80
)

// MarkdownWriter outputs results in GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs every page record as a table row followed by the
// collected contacts of each page.
func (w *MarkdownWriter) Write(results *model.ResultSet) (int, error) {
	md := markdown.NewMarkdown(w.output)
	records := orEmpty(results).Records()

	md.H1("Crawl Results")
	md.PlainText("")

	if len(records) == 0 {
		md.PlainText("No pages collected.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(records))
	for i, rec := range records {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			truncateString(rec.URL, maxURLWidth),
			dashIfEmpty(truncateString(rec.Title, maxTitleWidth)),
			dashIfEmpty(truncateString(rec.Preview, maxPreviewWidth)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "URL", "Title", "Preview"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, rec := range records {
		if len(rec.Emails) == 0 && len(rec.Phones) == 0 {
			continue
		}
		contacts := make([]string, 0, len(rec.Emails)+len(rec.Phones))
		for _, e := range rec.Emails {
			contacts = append(contacts, "email: `"+e+"`")
		}
		for _, p := range rec.Phones {
			contacts = append(contacts, "phone: `"+p+"`")
		}
		md.H3(rec.URL)
		md.BulletList(contacts...)
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}

// WriteSummary outputs the end-of-run summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeAlert(md, summary)
	if summary.PagesCrawled > 0 {
		w.writePieChart(md, summary)
	}
	w.writeContacts(md, "Emails", summary.Emails)
	w.writeContacts(md, "Phones", summary.Phones)
	w.writePages(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the crawl statistics table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Contactcrawl Summary")
	md.PlainText("")

	rows := [][]string{
		{"Seed URL", "`" + summary.SeedURL + "`"},
		{"Crawl Date", summary.DateCrawled.Format("2006-01-02 15:04:05 MST")},
		{"Duration", summary.Duration.Round(durationPrecision).String()},
		{"Pages Crawled", strconv.Itoa(summary.PagesCrawled)},
		{"Pages With Contacts", strconv.Itoa(summary.PagesWithContacts)},
		{"Unique Emails", strconv.Itoa(len(summary.Emails))},
		{"Unique Phones", strconv.Itoa(len(summary.Phones))},
	}
	if summary.OutputFile != "" {
		rows = append(rows, []string{"Results File", "`" + summary.OutputFile + "`"})
	}
	if summary.RunID != "" {
		rows = append(rows, []string{"Run ID", "`" + summary.RunID + "`"})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeAlert writes an alert describing the overall outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.Summary) {
	switch {
	case summary.PagesCrawled == 0:
		md.Warningf("No pages were collected from %s. Check the seed URL and the log output.", summary.SeedURL)
	case summary.HasContacts():
		md.Tip("Contacts found on " + strconv.Itoa(summary.PagesWithContacts) +
			" of " + strconv.Itoa(summary.PagesCrawled) + " page(s).")
	default:
		md.Note("No contact details were found on the crawled pages.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of pages with and without contacts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages With Contacts"),
		piechart.WithShowData(true),
	)

	if summary.PagesWithContacts > 0 {
		chart.LabelAndIntValue("With contacts", uint64(summary.PagesWithContacts)) //nolint:gosec // counts are non-negative
	}
	if without := summary.PagesCrawled - summary.PagesWithContacts; without > 0 {
		chart.LabelAndIntValue("Without contacts", uint64(without)) //nolint:gosec // checked above
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeContacts writes a section listing unique contact values.
func (w *MarkdownWriter) writeContacts(md *markdown.Markdown, title string, values []string) {
	md.H2(title)
	md.PlainText("")

	if len(values) == 0 {
		md.PlainText("None found.")
		md.PlainText("")
		return
	}

	items := make([]string, len(values))
	for i, v := range values {
		items[i] = "`" + v + "`"
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writePages writes the per-page table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Pages")
	md.PlainText("")

	if len(summary.Pages) == 0 {
		md.PlainText("No pages collected.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Pages))
	for i, p := range summary.Pages {
		rows[i] = []string{
			truncateString(p.URL, maxURLWidth),
			dashIfEmpty(truncateString(p.Title, maxTitleWidth)),
			strconv.Itoa(p.Emails),
			strconv.Itoa(p.Phones),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Emails", "Phones"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [contactcrawl](https://github.com/nao1215/contactcrawl)*")
}

// dashIfEmpty returns "-" for an empty cell.
func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
