package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"db-objects/internal/model"

	"github.com/fatih/color"
)

// ConsoleReporter prints a short human summary. It writes to stderr by
// default so the artifact on stdout stays machine readable.
type ConsoleReporter struct {
	out io.Writer

	filesFound   int
	filesScanned int
	filesSkipped int
	withFiles    bool
}

func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{out: os.Stderr}
}

func NewConsoleReporterTo(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// WithFiles adds the file counts of the scan to the summary.
func (r *ConsoleReporter) WithFiles(found, scanned, skipped int) *ConsoleReporter {
	r.filesFound = found
	r.filesScanned = scanned
	r.filesSkipped = skipped
	r.withFiles = true
	return r
}

func (r *ConsoleReporter) Report(entries []model.RegistryEntry) error {
	if r.withFiles {
		r.reportFiles()
	}

	if len(entries) == 0 {
		fmt.Fprintln(r.out, color.YellowString("No database objects found."))
		return nil
	}

	s := Summarize(entries)
	fmt.Fprintf(r.out, "\n%s %d database objects\n", color.GreenString("Found"), s.TotalObjects)

	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)

	fmt.Fprintln(r.out, color.New(color.Bold).Sprint("Objects by type:"))
	for _, t := range types {
		fmt.Fprintf(r.out, "  %s: %s\n", t, color.CyanString("%d", s.ByType[t]))
	}

	if s.AdhocUpdates > 0 {
		fmt.Fprintf(r.out, "Updates: %d migration, %s\n",
			s.MigrationUpdates, color.MagentaString("%d ad-hoc", s.AdhocUpdates))
	}
	return nil
}

func (r *ConsoleReporter) reportFiles() {
	if r.filesSkipped == 0 {
		fmt.Fprintf(r.out, "Scanned %d SQL files\n", r.filesScanned)
		return
	}
	fmt.Fprintf(r.out, "Scanned %d of %d SQL files, %s\n",
		r.filesScanned, r.filesFound, color.RedString("%d skipped", r.filesSkipped))
}
