package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nao1215/contactcrawl/internal/model"
	"github.com/nao1215/contactcrawl/internal/report"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

// NewCompareCmd creates the compare command.
// It diffs the contacts of two results files written by crawl.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <previous.json> <current.json>",
		Short: "Compare two results files",
		Long: `Compare shows what changed between two crawls of the same site:
- Emails and phone numbers that appeared or disappeared
- Pages that appeared or disappeared
- How many contacts were found in both

Examples:
  # Compare last week's results with today's
  contactcrawl compare results-old.json output/results.json

  # Output comparison in JSON format
  contactcrawl compare --json results-old.json output/results.json`,
		Args: cobra.ExactArgs(2),
		RunE: runCompareCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	previous, err := report.ReadResultsFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read previous results: %w", err)
	}
	current, err := report.ReadResultsFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read current results: %w", err)
	}

	result := compareResults(previous, current)
	result.PreviousFile = args[0]
	result.CurrentFile = args[1]

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		return outputComparisonJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

// ComparisonResult holds the differences between two result sets.
type ComparisonResult struct {
	// PreviousFile is the path of the older results file.
	PreviousFile string `json:"previous_file"`

	// CurrentFile is the path of the newer results file.
	CurrentFile string `json:"current_file"`

	// PreviousPages and CurrentPages are the record counts.
	PreviousPages int `json:"previous_pages"`
	CurrentPages  int `json:"current_pages"`

	// Emails is the email diff.
	Emails ContactDiff `json:"emails"`

	// Phones is the phone diff.
	Phones ContactDiff `json:"phones"`

	// NewPages are URLs only present in the current results.
	NewPages []string `json:"new_pages"`

	// RemovedPages are URLs only present in the previous results.
	RemovedPages []string `json:"removed_pages"`
}

// ContactDiff lists contact values added and removed between two crawls.
type ContactDiff struct {
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Unchanged int      `json:"unchanged"`
}

// HasChanges reports whether anything differs between the two crawls.
func (c *ComparisonResult) HasChanges() bool {
	return len(c.Emails.Added) > 0 || len(c.Emails.Removed) > 0 ||
		len(c.Phones.Added) > 0 || len(c.Phones.Removed) > 0 ||
		len(c.NewPages) > 0 || len(c.RemovedPages) > 0
}

// compareResults compares two result sets. Lists keep the order in which
// values first appear in their source set.
func compareResults(previous, current *model.ResultSet) *ComparisonResult {
	prevRecords := previous.Records()
	currRecords := current.Records()

	prevEmails, prevPhones, prevURLs := collectValues(prevRecords)
	currEmails, currPhones, currURLs := collectValues(currRecords)

	return &ComparisonResult{
		PreviousPages: len(prevRecords),
		CurrentPages:  len(currRecords),
		Emails:        diffValues(prevEmails, currEmails),
		Phones:        diffValues(prevPhones, currPhones),
		NewPages:      difference(currURLs, prevURLs),
		RemovedPages:  difference(prevURLs, currURLs),
	}
}

// collectValues returns the unique emails, phones and URLs of records.
func collectValues(records []model.PageRecord) (emails, phones, urls []string) {
	emails = make([]string, 0)
	phones = make([]string, 0)
	urls = make([]string, 0, len(records))
	seen := make(map[string]bool)

	add := func(kind string, dst *[]string, v string) {
		key := kind + "|" + v
		if seen[key] {
			return
		}
		seen[key] = true
		*dst = append(*dst, v)
	}

	for _, rec := range records {
		add("url", &urls, rec.URL)
		for _, e := range rec.Emails {
			add("email", &emails, e)
		}
		for _, p := range rec.Phones {
			add("phone", &phones, p)
		}
	}
	return emails, phones, urls
}

// diffValues builds a ContactDiff from two unique value lists.
func diffValues(previous, current []string) ContactDiff {
	added := difference(current, previous)
	return ContactDiff{
		Added:     added,
		Removed:   difference(previous, current),
		Unchanged: len(current) - len(added),
	}
}

// difference returns the values of a that are not in b, in a's order.
func difference(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, v := range b {
		inB[v] = true
	}
	out := make([]string, 0)
	for _, v := range a {
		if !inB[v] {
			out = append(out, v)
		}
	}
	return out
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Results Comparison")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: metricHeader,
		Rows:   metricRows(result),
	})
	md.PlainText("")

	if !result.HasChanges() {
		md.Note("No differences between the two crawls.")
		return md.Build()
	}

	sections := []struct {
		title  string
		values []string
		strike bool
	}{
		{"New Emails", result.Emails.Added, false},
		{"Removed Emails", result.Emails.Removed, true},
		{"New Phones", result.Phones.Added, false},
		{"Removed Phones", result.Phones.Removed, true},
		{"New Pages", result.NewPages, false},
		{"Removed Pages", result.RemovedPages, true},
	}
	for _, s := range sections {
		if len(s.values) == 0 {
			continue
		}
		md.H2(fmt.Sprintf("%s (%d)", s.title, len(s.values)))
		md.PlainText("")
		items := make([]string, len(s.values))
		for i, v := range s.values {
			items[i] = "`" + v + "`"
			if s.strike {
				items[i] = "~~" + items[i] + "~~"
			}
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	return md.Build()
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	var sb strings.Builder

	sb.WriteString("Results Comparison\n")
	sb.WriteString(strings.Repeat("=", 60))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "\nPrevious: %s\n", result.PreviousFile)
	fmt.Fprintf(&sb, "Current:  %s\n\n", result.CurrentFile)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	header := make(table.Row, len(metricHeader))
	for i, h := range metricHeader {
		header[i] = h
	}
	tw.AppendHeader(header)
	for _, r := range metricRows(result) {
		tw.AppendRow(table.Row{r[0], r[1], r[2], r[3]})
	}
	sb.WriteString(tw.Render())
	sb.WriteString("\n")

	if !result.HasChanges() {
		sb.WriteString("\nNo differences.\n")
		_, err := io.WriteString(out, sb.String())
		return err
	}

	writeDiff := func(title, marker string, values []string) {
		if len(values) == 0 {
			return
		}
		fmt.Fprintf(&sb, "\n%s (%d):\n", title, len(values))
		for _, v := range values {
			fmt.Fprintf(&sb, "  [%s] %s\n", marker, v)
		}
	}

	writeDiff("New Emails", "+", result.Emails.Added)
	writeDiff("Removed Emails", "-", result.Emails.Removed)
	writeDiff("New Phones", "+", result.Phones.Added)
	writeDiff("Removed Phones", "-", result.Phones.Removed)
	writeDiff("New Pages", "+", result.NewPages)
	writeDiff("Removed Pages", "-", result.RemovedPages)

	if n := result.Emails.Unchanged + result.Phones.Unchanged; n > 0 {
		fmt.Fprintf(&sb, "\nUnchanged: %d contacts\n", n)
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

// metricHeader is the header of the count table.
var metricHeader = []string{"Metric", "Previous", "Current", "Change"}

// metricRows returns previous and current counts of pages, emails and phones.
func metricRows(result *ComparisonResult) [][]string {
	row := func(name string, previous, current int) []string {
		return []string{name, strconv.Itoa(previous), strconv.Itoa(current), formatDelta(current - previous)}
	}
	return [][]string{
		row("Pages", result.PreviousPages, result.CurrentPages),
		row("Emails", result.Emails.Unchanged+len(result.Emails.Removed), result.Emails.Unchanged+len(result.Emails.Added)),
		row("Phones", result.Phones.Unchanged+len(result.Phones.Removed), result.Phones.Unchanged+len(result.Phones.Added)),
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
