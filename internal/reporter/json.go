package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"db-objects/internal/model"
)

type JSONReporter struct {
	out io.Writer
}

func NewJSONReporter(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out}
}

// Report writes an indented array. An empty registry renders as [].
func (r *JSONReporter) Report(entries []model.RegistryEntry) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(ToRecords(entries)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
