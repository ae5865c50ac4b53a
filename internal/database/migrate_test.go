package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestMigrate_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db, DriverSQLite))
	// Second run finds nothing to apply
	require.NoError(t, Migrate(ctx, db, DriverSQLite))

	for _, table := range []string{
		"consumables", "creatures", "creature_likes", "field_fixtures",
		"inventory_stacks", "owner_balances", "economy_ledger",
	} {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestMigrate_UnsupportedDriver(t *testing.T) {
	err := Migrate(context.Background(), nil, "mysql")

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnsupportedDriver)
}

func TestMigratePool_Postgres(t *testing.T) {
	requireTestDB(t)
	ctx := context.Background()

	pool, err := NewPool(ctx, testDBConnString, 5, time.Minute, 5*time.Minute)
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, MigratePool(ctx, pool))
	require.NoError(t, MigratePool(ctx, pool))

	var exists bool
	err = pool.QueryRow(ctx, `SELECT to_regclass('public.inventory_stacks') IS NOT NULL`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)
}
