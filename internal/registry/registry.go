// Package registry accumulates object events into one history per
// (schema, name, type) key.
package registry

import (
	"sort"

	"db-objects/internal/model"
)

// Registry has a single writer during the scan and is read only after it.
// It is not safe for concurrent use.
type Registry struct {
	entries map[model.ObjectKey]*model.RegistryEntry
	events  int
}

func New() *Registry {
	return &Registry{entries: make(map[model.ObjectKey]*model.RegistryEntry)}
}

// Record appends event to its entry's history and makes it the latest.
// Repeated identical events are kept.
func (r *Registry) Record(event model.ObjectEvent) {
	key := event.Key()
	entry, ok := r.entries[key]
	if !ok {
		entry = &model.RegistryEntry{Key: key}
		r.entries[key] = entry
	}
	entry.History = append(entry.History, event)
	entry.Latest = event
	r.events++
}

// RecordAll records events in slice order.
func (r *Registry) RecordAll(events []model.ObjectEvent) {
	for _, ev := range events {
		r.Record(ev)
	}
}

// Finalize returns the accumulated entries keyed by object key.
func (r *Registry) Finalize() map[model.ObjectKey]*model.RegistryEntry {
	return r.entries
}

// Entries returns copies of all entries sorted by key.
func (r *Registry) Entries() []model.RegistryEntry {
	out := make([]model.RegistryEntry, 0, len(r.entries))
	for _, e := range r.entries {
		cp := *e
		cp.History = append([]model.ObjectEvent(nil), e.History...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.Less(out[j].Key)
	})
	return out
}

// Len is the number of distinct objects.
func (r *Registry) Len() int {
	return len(r.entries)
}

// EventCount is the number of events recorded across all entries.
func (r *Registry) EventCount() int {
	return r.events
}
