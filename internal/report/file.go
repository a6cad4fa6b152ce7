package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/contactcrawl/internal/model"
)

// WriteResultsFile writes the result set to path as pretty-printed JSON,
// replacing any existing file. Missing parent directories are created.
func WriteResultsFile(path string, results *model.ResultSet) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Results contain scraped contact data, so only the owner may read them.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := NewJSONWriter(f, WithPrettyPrint()).Write(results); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write results: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// ReadResultsFile loads a result set previously written by WriteResultsFile.
func ReadResultsFile(path string) (*model.ResultSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, err
	}
	rs := model.NewResultSet()
	if err := rs.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("failed to decode results file %s: %w", path, err)
	}
	return rs, nil
}
