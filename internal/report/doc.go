// Package report renders crawl results.
//
// This package contains writers for different output formats:
//   - JSONWriter: the results file format, a JSON array of page records
//   - SimpleWriter: human-readable text output for terminal display
//   - MarkdownWriter: Markdown output with tables and a mermaid chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter. WriteResultsFile and
// ReadResultsFile persist a result set on disk.
package report
