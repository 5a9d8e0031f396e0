package reporter

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"db-objects/internal/model"
)

const (
	markdownTitle  = "# Database Objects Tracking"
	markdownHeader = "| Schema | Object Name | Type | Last File | Line | Updates | Migration Updates | Ad-hoc Updates |"
	markdownRule   = "|--------|-------------|------|-----------|------|---------|------------------|----------------|"
	emptyCell      = "-"
	cellBreak      = "<br>"
)

type MarkdownReporter struct {
	out io.Writer
}

func NewMarkdownReporter(out io.Writer) *MarkdownReporter {
	return &MarkdownReporter{out: out}
}

// EscapeMarkdown escapes underscores so names are not rendered as emphasis.
func EscapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "_", `\_`)
}

func (r *MarkdownReporter) Report(entries []model.RegistryEntry) error {
	var b strings.Builder

	b.WriteString(markdownTitle + "\n\n")
	b.WriteString(markdownHeader + "\n")
	b.WriteString(markdownRule + "\n")

	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %d | %s | %s |\n",
			EscapeMarkdown(e.Key.Schema),
			EscapeMarkdown(e.Key.ObjectName),
			EscapeMarkdown(string(e.Key.ObjectType)),
			EscapeMarkdown(e.Latest.File),
			e.Latest.Line,
			e.TotalUpdates(),
			updatesCell(e.UpdatesBySource(model.ProvenanceMigration)),
			updatesCell(e.UpdatesBySource(model.ProvenanceAdhoc)),
		)
	}

	writeSummary(&b, Summarize(entries))

	if _, err := io.WriteString(r.out, b.String()); err != nil {
		return fmt.Errorf("writing markdown: %w", err)
	}
	return nil
}

// updatesCell lists file:line locations in reverse discovery order.
func updatesCell(events []model.ObjectEvent) string {
	if len(events) == 0 {
		return emptyCell
	}
	parts := make([]string, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		parts = append(parts, fmt.Sprintf("%s:%d", EscapeMarkdown(events[i].File), events[i].Line))
	}
	return strings.Join(parts, cellBreak)
}

func writeSummary(b *strings.Builder, s Summary) {
	b.WriteString("\n## Summary\n")
	fmt.Fprintf(b, "- **Total Objects**: %d\n", s.TotalObjects)
	fmt.Fprintf(b, "- **By Type**: %s\n", joinCounts(s.ByType))
	fmt.Fprintf(b, "- **By Schema**: %s\n", EscapeMarkdown(joinCounts(s.BySchema)))
	if s.AdhocUpdates > 0 {
		fmt.Fprintf(b, "- **Updates**: %d migration, %d ad-hoc\n", s.MigrationUpdates, s.AdhocUpdates)
	}
}

// Summary holds the aggregate counts printed after a report.
type Summary struct {
	TotalObjects     int
	ByType           map[string]int
	BySchema         map[string]int
	MigrationUpdates int
	AdhocUpdates     int
}

func Summarize(entries []model.RegistryEntry) Summary {
	s := Summary{
		TotalObjects: len(entries),
		ByType:       make(map[string]int),
		BySchema:     make(map[string]int),
	}
	for _, e := range entries {
		s.ByType[string(e.Key.ObjectType)]++
		s.BySchema[e.Key.Schema]++
		for _, ev := range e.History {
			if ev.Source == model.ProvenanceAdhoc {
				s.AdhocUpdates++
			} else {
				s.MigrationUpdates++
			}
		}
	}
	return s
}

// joinCounts renders "k: v" pairs sorted by key.
func joinCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
