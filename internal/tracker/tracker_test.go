package tracker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"db-objects/internal/model"
	"db-objects/internal/reporter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func key(schema, name string, typ model.ObjectType) model.ObjectKey {
	return model.ObjectKey{Schema: schema, ObjectName: name, ObjectType: typ}
}

func TestTrack_SingleCreate(t *testing.T) {
	work := t.TempDir()
	write(t, work, "001_init.sql", "CREATE TABLE public.users (\n  id int\n);\n")

	reg, stats, err := New(nil).Track(work, "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesScanned)

	entries := reg.Finalize()
	require.Len(t, entries, 1)
	entry := entries[key("public", "users", model.ObjectTable)]
	require.NotNil(t, entry)
	require.Len(t, entry.History, 1)
	assert.Equal(t, model.OpCreate, entry.History[0].Operation)
	assert.Equal(t, 1, entry.History[0].Line)
}

func TestTrack_CreateThenAlterAcrossFiles(t *testing.T) {
	work := t.TempDir()
	write(t, work, "005_b.sql", "ALTER TABLE t ADD COLUMN x int;\n")
	write(t, work, "001_a.sql", "CREATE TABLE t (id int);\n")

	reg, _, err := New(nil).Track(work, "")
	require.NoError(t, err)

	records := reporter.ToRecords(reg.Entries())
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "public", rec.Schema)
	assert.Equal(t, "t", rec.ObjectName)
	assert.Equal(t, 2, rec.TotalUpdates)
	assert.Equal(t, "005_b.sql", rec.LastUpdateFile)
	assert.Equal(t, 1, rec.LastUpdateLine)
	assert.Equal(t, "migration", rec.LastUpdateSource)
	assert.Equal(t, "001_a.sql", rec.AllUpdates[0].File)
}

func TestTrack_AdhocOnly(t *testing.T) {
	work := t.TempDir()
	adhoc := t.TempDir()
	write(t, adhoc, "patch.sql", "DROP INDEX idx_old;\n")

	reg, _, err := New(nil).Track(work, adhoc)
	require.NoError(t, err)

	out, err := reporter.Render(reporter.FormatJSON, reg.Entries())
	require.NoError(t, err)

	var records []reporter.ObjectRecord
	require.NoError(t, json.Unmarshal(out, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "idx_old", records[0].ObjectName)
	assert.Equal(t, "index", records[0].ObjectType)
	assert.Equal(t, "ad-hoc", records[0].LastUpdateSource)
	require.Len(t, records[0].AllUpdates, 1)
	assert.Equal(t, "ad-hoc", records[0].AllUpdates[0].Source)
	assert.Equal(t, "DROP", records[0].AllUpdates[0].Operation)
}

func TestTrack_CommentedOutStatement(t *testing.T) {
	work := t.TempDir()
	write(t, work, "001_init.sql", "-- CREATE TABLE commented_out (id int);\nSELECT 1;\n")

	reg, _, err := New(nil).Track(work, "")
	require.NoError(t, err)
	assert.Equal(t, 0, reg.Len())
}

func TestTrack_SchemaQualifiedName(t *testing.T) {
	work := t.TempDir()
	write(t, work, "001_init.sql", "CREATE TABLE account_schema.orders (id int);\n")

	reg, _, err := New(nil).Track(work, "")
	require.NoError(t, err)
	assert.Contains(t, reg.Finalize(), key("account_schema", "orders", model.ObjectTable))
}

func TestTrack_AdhocAfterMigrations(t *testing.T) {
	work := t.TempDir()
	adhoc := t.TempDir()
	write(t, work, "999-examples.sql", "ALTER TABLE t ADD COLUMN z int;\n")
	write(t, work, "95_late.sql", "ALTER TABLE t ADD COLUMN y int;\n")
	write(t, work, "001_a.sql", "CREATE TABLE t (id int);\n")
	write(t, adhoc, "a_fix.sql", "ALTER TABLE t DROP COLUMN z;\n")

	reg, _, err := New(nil).Track(work, adhoc)
	require.NoError(t, err)

	entry := reg.Finalize()[key("public", "t", model.ObjectTable)]
	require.NotNil(t, entry)

	var files []string
	for _, ev := range entry.History {
		files = append(files, ev.File)
	}
	assert.Equal(t, []string{"001_a.sql", "95_late.sql", "999-examples.sql", "a_fix.sql"}, files)
	assert.Equal(t, entry.History[len(entry.History)-1], entry.Latest)
	assert.Equal(t, model.ProvenanceAdhoc, entry.Latest.Source)
}

func TestTrack_UnreadableFileIsSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files regardless of mode")
	}
	work := t.TempDir()
	write(t, work, "001_a.sql", "CREATE TABLE a (id int);\n")
	locked := write(t, work, "002_b.sql", "CREATE TABLE b (id int);\n")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o644) })

	reg, stats, err := New(nil).Track(work, "")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesSkipped)
	assert.Equal(t, 1, reg.Len())
}

func TestTrack_NoFiles(t *testing.T) {
	reg, stats, err := New(nil).Track(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.FilesFound)
	assert.Equal(t, 0, reg.Len())

	out, err := reporter.Render(reporter.FormatJSON, reg.Entries())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestTrack_MissingWorkingDir(t *testing.T) {
	_, _, err := New(nil).Track(filepath.Join(t.TempDir(), "missing"), "")
	require.Error(t, err)
}

func TestTrack_TotalUpdatesMatchesHistoryInEveryFormat(t *testing.T) {
	work := t.TempDir()
	write(t, work, "001_a.sql", "CREATE TABLE t (id int);\nCREATE INDEX idx_t ON t (id);\n")
	write(t, work, "002_b.sql", "ALTER TABLE t ADD COLUMN x int;\nALTER TABLE t ADD COLUMN x int;\n")

	reg, stats, err := New(nil).Track(work, "")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Events)

	for _, rec := range reporter.ToRecords(reg.Entries()) {
		assert.Len(t, rec.AllUpdates, rec.TotalUpdates)
	}
	entry := reg.Finalize()[key("public", "t", model.ObjectTable)]
	assert.Equal(t, 3, entry.TotalUpdates())
}

func TestTrack_JSONIsIdempotent(t *testing.T) {
	work := t.TempDir()
	adhoc := t.TempDir()
	write(t, work, "001_a.sql", "CREATE SCHEMA app;\nCREATE TABLE app.t (id int);\nCREATE OR REPLACE VIEW app.v AS SELECT 1;\n")
	write(t, adhoc, "x/y.sql", "CREATE OR REPLACE FUNCTION app.f() RETURNS int AS $$ SELECT 1 $$;\n")

	render := func() []byte {
		reg, _, err := New(nil).Track(work, adhoc)
		require.NoError(t, err)
		out, err := reporter.Render(reporter.FormatJSON, reg.Entries())
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, render(), render())
}
