package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"db-objects/internal/model"
)

var csvHeader = []string{
	"Schema",
	"ObjectName",
	"ObjectType",
	"LastUpdateFile",
	"LastUpdateLine",
	"TotalUpdates",
	"LastUpdateSource",
	"AllUpdates",
}

type CSVReporter struct {
	out io.Writer
}

func NewCSVReporter(out io.Writer) *CSVReporter {
	return &CSVReporter{out: out}
}

// Report writes the header followed by one row per entry. The header is
// written even when there are no entries.
func (r *CSVReporter) Report(entries []model.RegistryEntry) error {
	w := csv.NewWriter(r.out)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.Key.Schema,
			e.Key.ObjectName,
			string(e.Key.ObjectType),
			e.Latest.File,
			strconv.Itoa(e.Latest.Line),
			strconv.Itoa(e.TotalUpdates()),
			e.Latest.Source.Display(),
			FormatHistory(e.History),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing csv row for %s: %w", e.Key, err)
		}
	}
	w.Flush()
	return w.Error()
}
