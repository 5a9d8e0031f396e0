package model

import "fmt"

// Provenance tells whether a file belongs to the ordered migration set or
// was picked up from the ad-hoc script directory.
type Provenance string

const (
	ProvenanceMigration Provenance = "migration"
	ProvenanceAdhoc     Provenance = "ad-hoc"
)

// Display returns the capitalized label used in tabular output.
func (p Provenance) Display() string {
	if p == ProvenanceAdhoc {
		return "Ad-hoc"
	}
	return "Migration"
}

// SourceFile is a discovered file together with its provenance.
type SourceFile struct {
	Path       string
	Provenance Provenance
}

// ObjectType is the kind of database object a statement touches.
type ObjectType string

const (
	ObjectFunction  ObjectType = "function"
	ObjectProcedure ObjectType = "procedure"
	ObjectTable     ObjectType = "table"
	ObjectIndex     ObjectType = "index"
	ObjectView      ObjectType = "view"
	ObjectTrigger   ObjectType = "trigger"
	ObjectSchema    ObjectType = "schema"
)

// Operation is the DDL verb applied to an object.
type Operation string

const (
	OpCreate          Operation = "CREATE"
	OpCreateOrReplace Operation = "CREATE_OR_REPLACE"
	OpAlter           Operation = "ALTER"
	OpDrop            Operation = "DROP"
)

// DefaultSchema is assumed when an identifier has no schema qualifier.
const DefaultSchema = "public"

// ObjectEvent is one detected DDL statement.
type ObjectEvent struct {
	Schema     string
	ObjectName string
	ObjectType ObjectType
	Operation  Operation
	File       string
	Line       int
	RawLine    string
	Source     Provenance
}

// Key returns the registry key the event belongs to.
func (e ObjectEvent) Key() ObjectKey {
	return ObjectKey{Schema: e.Schema, ObjectName: e.ObjectName, ObjectType: e.ObjectType}
}

// Location formats the event as file:line.
func (e ObjectEvent) Location() string {
	return fmt.Sprintf("%s:%d", e.File, e.Line)
}

// ObjectKey identifies a registry entry. The same physical object matched
// under two different types yields two keys.
type ObjectKey struct {
	Schema     string
	ObjectName string
	ObjectType ObjectType
}

// Less orders keys by schema, then object name, then object type.
func (k ObjectKey) Less(o ObjectKey) bool {
	if k.Schema != o.Schema {
		return k.Schema < o.Schema
	}
	if k.ObjectName != o.ObjectName {
		return k.ObjectName < o.ObjectName
	}
	return k.ObjectType < o.ObjectType
}

func (k ObjectKey) String() string {
	return fmt.Sprintf("%s.%s (%s)", k.Schema, k.ObjectName, k.ObjectType)
}

// RegistryEntry accumulates every event seen for one key.
// Latest is always the last element of History.
type RegistryEntry struct {
	Key     ObjectKey
	History []ObjectEvent
	Latest  ObjectEvent
}

func (e *RegistryEntry) TotalUpdates() int {
	return len(e.History)
}

// UpdatesBySource returns the history events with the given provenance,
// in discovery order.
func (e *RegistryEntry) UpdatesBySource(p Provenance) []ObjectEvent {
	var out []ObjectEvent
	for _, ev := range e.History {
		if ev.Source == p {
			out = append(out, ev)
		}
	}
	return out
}
