package extractor

import (
	"regexp"

	"db-objects/internal/model"
)

// typeRules is the ordered list of patterns for one object type. Every
// pattern captures the verb phrase in group 1 and the identifier in group 2.
type typeRules struct {
	objectType model.ObjectType
	patterns   []*regexp.Regexp
}

const ident = `([a-zA-Z_][a-zA-Z0-9_.]*)`

func rule(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*` + expr)
}

// defaultRules is the declared priority: function, procedure, table, index,
// view, trigger, schema. Within a type the order is CREATE, then ALTER or
// DROP as listed.
var defaultRules = []typeRules{
	{
		objectType: model.ObjectFunction,
		patterns: []*regexp.Regexp{
			rule(`(CREATE\s+(?:OR\s+REPLACE\s+)?FUNCTION)\s+` + ident + `\s*\(`),
			rule(`(DROP\s+FUNCTION)(?:\s+IF\s+EXISTS)?\s+` + ident),
		},
	},
	{
		objectType: model.ObjectProcedure,
		patterns: []*regexp.Regexp{
			rule(`(CREATE\s+(?:OR\s+REPLACE\s+)?PROCEDURE)\s+` + ident + `\s*\(`),
			rule(`(DROP\s+PROCEDURE)(?:\s+IF\s+EXISTS)?\s+` + ident),
		},
	},
	{
		objectType: model.ObjectTable,
		patterns: []*regexp.Regexp{
			rule(`(CREATE\s+(?:UNLOGGED\s+|TEMPORARY\s+|TEMP\s+)?TABLE)(?:\s+IF\s+NOT\s+EXISTS)?\s+` + ident),
			rule(`(ALTER\s+TABLE)\s+` + ident),
			rule(`(DROP\s+TABLE)(?:\s+IF\s+EXISTS)?\s+` + ident),
		},
	},
	{
		objectType: model.ObjectIndex,
		patterns: []*regexp.Regexp{
			rule(`(CREATE\s+(?:UNIQUE\s+)?INDEX)(?:\s+CONCURRENTLY)?(?:\s+IF\s+NOT\s+EXISTS)?\s+` + ident + `\s+ON`),
			rule(`(DROP\s+INDEX)(?:\s+CONCURRENTLY)?(?:\s+IF\s+EXISTS)?\s+` + ident),
			rule(`(ALTER\s+INDEX)\s+` + ident),
		},
	},
	{
		objectType: model.ObjectView,
		patterns: []*regexp.Regexp{
			rule(`(CREATE\s+(?:OR\s+REPLACE\s+)?VIEW)\s+` + ident),
			rule(`(DROP\s+VIEW)(?:\s+IF\s+EXISTS)?\s+` + ident),
		},
	},
	{
		objectType: model.ObjectTrigger,
		patterns: []*regexp.Regexp{
			rule(`(CREATE\s+(?:OR\s+REPLACE\s+)?TRIGGER)\s+` + ident),
			rule(`(DROP\s+TRIGGER)(?:\s+IF\s+EXISTS)?\s+` + ident),
		},
	},
	{
		objectType: model.ObjectSchema,
		patterns: []*regexp.Regexp{
			rule(`(CREATE\s+SCHEMA)(?:\s+IF\s+NOT\s+EXISTS)?\s+` + ident),
			rule(`(DROP\s+SCHEMA)(?:\s+IF\s+EXISTS)?\s+` + ident),
		},
	},
}

// ObjectTypes returns the object types in classification priority order.
func ObjectTypes() []model.ObjectType {
	out := make([]model.ObjectType, 0, len(defaultRules))
	for _, tr := range defaultRules {
		out = append(out, tr.objectType)
	}
	return out
}
