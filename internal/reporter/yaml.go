package reporter

import (
	"fmt"
	"io"

	"db-objects/internal/model"

	"gopkg.in/yaml.v3"
)

type YAMLReporter struct {
	out io.Writer
}

func NewYAMLReporter(out io.Writer) *YAMLReporter {
	return &YAMLReporter{out: out}
}

func (r *YAMLReporter) Report(entries []model.RegistryEntry) error {
	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(ToRecords(entries)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
