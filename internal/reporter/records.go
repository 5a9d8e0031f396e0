package reporter

import (
	"fmt"
	"strings"

	"db-objects/internal/model"
)

// UpdateRecord is one history item in structured output.
type UpdateRecord struct {
	File      string `json:"file" yaml:"file"`
	Line      int    `json:"line" yaml:"line"`
	Operation string `json:"operation" yaml:"operation"`
	Source    string `json:"source" yaml:"source"`
}

// ObjectRecord is the structured projection of a registry entry.
type ObjectRecord struct {
	Schema           string         `json:"schema" yaml:"schema"`
	ObjectName       string         `json:"object_name" yaml:"object_name"`
	ObjectType       string         `json:"object_type" yaml:"object_type"`
	LastUpdateFile   string         `json:"last_update_file" yaml:"last_update_file"`
	LastUpdateLine   int            `json:"last_update_line" yaml:"last_update_line"`
	LastUpdateSource string         `json:"last_update_source" yaml:"last_update_source"`
	TotalUpdates     int            `json:"total_updates" yaml:"total_updates"`
	AllUpdates       []UpdateRecord `json:"all_updates" yaml:"all_updates"`
}

func toRecord(e model.RegistryEntry) ObjectRecord {
	updates := make([]UpdateRecord, 0, len(e.History))
	for _, ev := range e.History {
		updates = append(updates, UpdateRecord{
			File:      ev.File,
			Line:      ev.Line,
			Operation: string(ev.Operation),
			Source:    string(ev.Source),
		})
	}
	return ObjectRecord{
		Schema:           e.Key.Schema,
		ObjectName:       e.Key.ObjectName,
		ObjectType:       string(e.Key.ObjectType),
		LastUpdateFile:   e.Latest.File,
		LastUpdateLine:   e.Latest.Line,
		LastUpdateSource: string(e.Latest.Source),
		TotalUpdates:     e.TotalUpdates(),
		AllUpdates:       updates,
	}
}

// ToRecords projects entries in the order given.
func ToRecords(entries []model.RegistryEntry) []ObjectRecord {
	out := make([]ObjectRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, toRecord(e))
	}
	return out
}

// historySeparator joins history items in the tabular AllUpdates column.
const historySeparator = "; "

// FormatHistory renders file:line:OPERATION(source) items in discovery order.
func FormatHistory(history []model.ObjectEvent) string {
	parts := make([]string, 0, len(history))
	for _, ev := range history {
		parts = append(parts, fmt.Sprintf("%s:%d:%s(%s)", ev.File, ev.Line, ev.Operation, ev.Source))
	}
	return strings.Join(parts, historySeparator)
}
