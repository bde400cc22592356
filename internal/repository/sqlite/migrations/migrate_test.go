package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "create_records", migrations[0].Name)
	assert.Contains(t, migrations[0].Up, "CREATE TABLE IF NOT EXISTS records")
	assert.Contains(t, migrations[0].Down, "DROP TABLE")
	assert.Equal(t, 2, migrations[1].Version)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db))

	assert.True(t, tableExists(t, db, "records"))

	applied, err := AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: true}, applied)
}

func TestRollbackLatest(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	require.NoError(t, RunMigrations(ctx, db))

	require.NoError(t, RollbackLatest(ctx, db))
	applied, err := AppliedVersions(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true}, applied)

	require.NoError(t, RollbackLatest(ctx, db))
	assert.False(t, tableExists(t, db, "records"))

	require.NoError(t, RollbackLatest(ctx, db))
}

func TestExtractVersion(t *testing.T) {
	assert.Equal(t, 1, extractVersion("0001_create_records.up.sql"))
	assert.Equal(t, 12, extractVersion("0012_x.up.sql"))
	assert.Equal(t, 0, extractVersion("readme.sql"))
}
