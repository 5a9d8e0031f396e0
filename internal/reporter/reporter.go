// Package reporter renders a finalized registry as json, csv, markdown or
// yaml, and prints a console summary.
package reporter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"db-objects/internal/model"
)

const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatJSON, FormatCSV, FormatMarkdown, FormatYAML}
}

// New returns the reporter for format writing to out.
func New(format string, out io.Writer) (model.Reporter, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONReporter(out), nil
	case FormatCSV:
		return NewCSVReporter(out), nil
	case FormatMarkdown, "md":
		return NewMarkdownReporter(out), nil
	case FormatYAML, "yml":
		return NewYAMLReporter(out), nil
	default:
		return nil, fmt.Errorf("unknown format %q (supported: %s)", format, strings.Join(Formats(), ", "))
	}
}

// Render produces the complete artifact in memory.
func Render(format string, entries []model.RegistryEntry) ([]byte, error) {
	var buf bytes.Buffer
	rpt, err := New(format, &buf)
	if err != nil {
		return nil, err
	}
	if err := rpt.Report(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes data to path through a temp file in the same directory
// and renames it into place, so a failed write never leaves a partial
// artifact at path.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing output file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting output file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("moving output file into place: %w", err)
	}
	return nil
}
