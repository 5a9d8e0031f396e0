package tracker

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"db-objects/internal/extractor"
	"db-objects/internal/registry"
	"db-objects/internal/scanner"
)

// Stats describes one extraction run.
type Stats struct {
	FilesFound   int
	FilesScanned int
	FilesSkipped int
	Events       int
	Objects      int
}

// Tracker runs discovery, classification and accumulation sequentially.
type Tracker struct {
	locator *scanner.Locator
	manager *extractor.Manager
	logger  *slog.Logger
}

func New(logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Tracker{
		locator: scanner.NewLocator(logger),
		manager: extractor.NewManager(extractor.NewRegexExtractor()),
		logger:  logger,
	}
}

// Track scans workingDir and the optional adhocDir and returns the filled
// registry. Files that cannot be read are logged and skipped; only a failure
// to list workingDir is returned as an error.
func (t *Tracker) Track(workingDir, adhocDir string) (*registry.Registry, Stats, error) {
	var stats Stats

	files, err := t.locator.Discover(workingDir, adhocDir)
	if err != nil {
		return nil, stats, fmt.Errorf("discovering files: %w", err)
	}
	stats.FilesFound = len(files)
	t.logger.Info("scanning sql files", "count", len(files))

	reg := registry.New()
	for _, f := range files {
		t.logger.Debug("processing", "file", filepath.Base(f.Path), "source", f.Provenance)

		events, err := t.manager.Extract(f)
		if err != nil {
			stats.FilesSkipped++
			t.logger.Warn("skipping unreadable file", "path", f.Path, "error", err)
			continue
		}
		stats.FilesScanned++
		reg.RecordAll(events)
	}

	stats.Events = reg.EventCount()
	stats.Objects = reg.Len()
	t.logger.Info("scan complete", "objects", stats.Objects, "events", stats.Events, "skipped", stats.FilesSkipped)
	return reg, stats, nil
}
