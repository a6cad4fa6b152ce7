package report

import (
	"io"

	"github.com/nao1215/contactcrawl/internal/model"
)

// Writer defines the interface for crawl output.
// Implementations render crawl results in various formats.
type Writer interface {
	// Write outputs every page record of the result set.
	// Returns the number of bytes written and any error encountered.
	Write(results *model.ResultSet) (int, error)

	// WriteSummary outputs the condensed end-of-run summary.
	WriteSummary(summary *model.Summary) (int, error)
}

// MultiWriter writes to multiple Writers in order.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result set to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(results *model.ResultSet) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the summary to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// orEmpty returns an empty result set in place of nil.
func orEmpty(results *model.ResultSet) *model.ResultSet {
	if results == nil {
		return model.NewResultSet()
	}
	return results
}
