package extractor

import (
	"strings"

	"db-objects/internal/model"
)

// RegexExtractor classifies DDL lines with the ordered rule table in rules.go
type RegexExtractor struct {
	rules []typeRules
}

func NewRegexExtractor() *RegexExtractor {
	return &RegexExtractor{rules: defaultRules}
}

// Classify scans text line by line. Comment detection is a prefix test on
// the trimmed line only; interior lines of a multi-line /* */ block are
// tested like any other line.
func (e *RegexExtractor) Classify(text, fileName string) []model.ObjectEvent {
	var events []model.ObjectEvent

	// Split rather than bufio.Scanner: dumps can carry lines past any
	// fixed token limit.
	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if skipLine(line) {
			continue
		}

		if ev, ok := e.classifyLine(line); ok {
			ev.File = fileName
			ev.Line = lineNo
			ev.RawLine = line
			events = append(events, ev)
		}
	}

	return events
}

func skipLine(line string) bool {
	return line == "" || strings.HasPrefix(line, "--") || strings.HasPrefix(line, "/*")
}

// classifyLine returns the event for the first matching rule. Once a type
// matches, later types are not tried.
func (e *RegexExtractor) classifyLine(line string) (model.ObjectEvent, bool) {
	for _, tr := range e.rules {
		for _, re := range tr.patterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			schema, name := SplitIdentifier(strings.TrimSpace(m[2]))
			return model.ObjectEvent{
				Schema:     schema,
				ObjectName: name,
				ObjectType: tr.objectType,
				Operation:  ClassifyOperation(m[1]),
			}, true
		}
	}
	return model.ObjectEvent{}, false
}

// ClassifyOperation maps a matched verb phrase to its operation.
func ClassifyOperation(verb string) model.Operation {
	verb = strings.ToUpper(verb)
	switch {
	case strings.Contains(verb, "REPLACE"):
		return model.OpCreateOrReplace
	case strings.Contains(verb, "CREATE"):
		return model.OpCreate
	case strings.Contains(verb, "ALTER"):
		return model.OpAlter
	default:
		return model.OpDrop
	}
}

// SplitIdentifier splits schema.name at the first dot. Unqualified names
// belong to the public schema.
func SplitIdentifier(ident string) (schema, name string) {
	if i := strings.IndexByte(ident, '.'); i >= 0 {
		return ident[:i], ident[i+1:]
	}
	return model.DefaultSchema, ident
}
