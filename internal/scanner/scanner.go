package scanner

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"db-objects/internal/model"
)

// ExamplesFile is the fixed sentinel migration that always sorts last.
const ExamplesFile = "999-examples.sql"

var (
	threeDigitMigration = regexp.MustCompile(`^(\d{3})_.*\.sql$`)
	ninetyMigration     = regexp.MustCompile(`^9(\d)_.*\.sql$`)
)

// AdhocState describes how the ad-hoc directory setting resolved.
type AdhocState int

const (
	AdhocNotConfigured AdhocState = iota
	AdhocNotFound
	AdhocFound
)

func (s AdhocState) String() string {
	switch s {
	case AdhocNotFound:
		return "not found"
	case AdhocFound:
		return "found"
	default:
		return "not configured"
	}
}

// Describe reports whether adhocDir is unset, set but missing, or present.
func Describe(adhocDir string) AdhocState {
	if adhocDir == "" {
		return AdhocNotConfigured
	}
	info, err := os.Stat(adhocDir)
	if err != nil || !info.IsDir() {
		return AdhocNotFound
	}
	return AdhocFound
}

// MigrationSortKey returns the ordering key for a migration file name and
// whether the name is a migration at all.
func MigrationSortKey(name string) (int, bool) {
	if m := threeDigitMigration.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n, true
	}
	if m := ninetyMigration.FindStringSubmatch(name); m != nil {
		n, _ := strconv.Atoi(m[1])
		return 90 + n, true
	}
	if name == ExamplesFile {
		return 999, true
	}
	return 0, false
}

// Locator discovers migration and ad-hoc files and orders them.
type Locator struct {
	logger *slog.Logger
}

func NewLocator(logger *slog.Logger) *Locator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Locator{logger: logger}
}

type migrationFile struct {
	path string
	name string
	key  int
}

// Discover lists the migration files in workingDir followed by every regular
// file under adhocDir. Migrations are ordered by numeric prefix, ad-hoc files
// by full path. A missing or empty adhocDir is not an error.
func (l *Locator) Discover(workingDir, adhocDir string) ([]model.SourceFile, error) {
	entries, err := os.ReadDir(workingDir)
	if err != nil {
		return nil, fmt.Errorf("reading working directory %s: %w", workingDir, err)
	}

	var migrations []migrationFile
	for _, e := range entries {
		key, ok := MigrationSortKey(e.Name())
		if !ok || !isRegular(filepath.Join(workingDir, e.Name()), e) {
			continue
		}
		migrations = append(migrations, migrationFile{
			path: filepath.Join(workingDir, e.Name()),
			name: e.Name(),
			key:  key,
		})
	}
	sort.SliceStable(migrations, func(i, j int) bool {
		if migrations[i].key != migrations[j].key {
			return migrations[i].key < migrations[j].key
		}
		return migrations[i].name < migrations[j].name
	})

	adhocRoot := resolve(adhocDir)
	seen := make(map[string]struct{}, len(migrations))
	files := make([]model.SourceFile, 0, len(migrations))
	for _, m := range migrations {
		if r := resolve(m.path); r != "" {
			seen[r] = struct{}{}
		}
		files = append(files, model.SourceFile{Path: m.path, Provenance: provenance(m.path, adhocRoot)})
	}

	if Describe(adhocDir) != AdhocFound {
		return files, nil
	}

	adhoc := l.walkAdhoc(adhocDir, adhocRoot)
	sort.Strings(adhoc)
	for _, p := range adhoc {
		// Links inside the tree that point at an already listed file are
		// scanned once, under the first path in sort order.
		if r := resolve(p); r != "" {
			if _, dup := seen[r]; dup {
				l.logger.Debug("skipping duplicate ad-hoc path", "path", p, "target", r)
				continue
			}
			seen[r] = struct{}{}
		}
		files = append(files, model.SourceFile{Path: p, Provenance: provenance(p, adhocRoot)})
	}
	return files, nil
}

// walkAdhoc walks the resolved root, which follows a symlinked ad-hoc
// directory, and reports paths joined back onto dir.
func (l *Locator) walkAdhoc(dir, root string) []string {
	if root == "" {
		l.logger.Warn("cannot resolve ad-hoc directory, skipping", "dir", dir)
		return nil
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			l.logger.Warn("skipping unreadable ad-hoc path", "path", path, "error", err)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isRegular(path, d) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			l.logger.Warn("skipping ad-hoc path outside root", "path", path, "error", err)
			return nil
		}
		paths = append(paths, filepath.Join(dir, rel))
		return nil
	})
	if err != nil {
		l.logger.Warn("ad-hoc directory walk stopped early", "dir", dir, "error", err)
	}
	return paths
}

// isRegular follows symlinks so a linked migration is still picked up.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// resolve returns the absolute, symlink-free form of path, or "" if it
// cannot be resolved.
func resolve(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return ""
	}
	return resolved
}

// location resolves the directory holding path but keeps the final element,
// so a link placed in the ad-hoc tree is located where the link lives.
func location(path string) string {
	if _, err := os.Lstat(path); err != nil {
		return ""
	}
	dir := resolve(filepath.Dir(path))
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, filepath.Base(path))
}

// provenance falls back to migration whenever either path cannot be resolved.
func provenance(path, adhocRoot string) model.Provenance {
	if adhocRoot == "" {
		return model.ProvenanceMigration
	}
	p := location(path)
	if p == "" {
		return model.ProvenanceMigration
	}
	rel, err := filepath.Rel(adhocRoot, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return model.ProvenanceMigration
	}
	return model.ProvenanceAdhoc
}
