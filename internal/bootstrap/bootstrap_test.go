package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Critterfield_Go/internal/clock"
	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/eventlog"
	"github.com/osse101/Critterfield_Go/internal/testing/economytest"
	"github.com/osse101/Critterfield_Go/internal/utils"
)

func TestCleanupLogs_KeepsNewest(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"session_2026-01-01_10-00-00.log",
		"session_2026-01-02_10-00-00.log",
		"session_2026-01-03_10-00-00.log",
		"notes.txt",
	}
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x"), 0o600))
	}

	cleanupLogs(dir, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var left []string
	for _, e := range entries {
		left = append(left, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"session_2026-01-02_10-00-00.log",
		"session_2026-01-03_10-00-00.log",
		"notes.txt",
	}, left)
}

func TestCleanupLogs_MissingDir(t *testing.T) {
	assert.NotPanics(t, func() { cleanupLogs(filepath.Join(t.TempDir(), "missing"), 1) })
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DBDriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "economy.db")}

	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{DBDriver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgUnsupportedDriver)
}

func TestLoadEconomy_ShippedConfig(t *testing.T) {
	cfg := &config.Config{EconomyPath: filepath.Join("..", "..", "configs", "economy.yaml")}

	econ, table, err := LoadEconomy(cfg, utils.NewRand(1))
	require.NoError(t, err)
	assert.Len(t, table.Tiers(), len(econ.Tiers))
	assert.Equal(t, "common", table.Lowest().Name)
}

func TestLoadEconomy_MissingFile(t *testing.T) {
	cfg := &config.Config{EconomyPath: filepath.Join(t.TempDir(), "nope.yaml")}

	_, _, err := LoadEconomy(cfg, utils.NewRand(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedLoadEconomy)
}

func TestBuildEconomy_RegistersSweeps(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DBDriver:           config.DBDriverSQLite,
		SQLitePath:         filepath.Join(t.TempDir(), "economy.db"),
		AuditRetentionDays: 7,
		LikeCacheSize:      16,
		LikeCacheTTL:       time.Minute,
	}
	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()

	rng := utils.NewRand(7)
	econ := economytest.Economy()
	_, table, err := LoadEconomy(&config.Config{EconomyPath: filepath.Join("..", "..", "configs", "economy.yaml")}, rng)
	require.NoError(t, err)

	audit := eventlog.NewService(t.TempDir(), nil)
	defer audit.Close()

	built, err := BuildEconomy(EconomyDependencies{
		Config:   cfg,
		Economy:  econ,
		Table:    table,
		Rand:     rng,
		Store:    store,
		Bus:      event.NewMemoryBus(),
		Clock:    clock.NewSimulatedClock(time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)),
		EventLog: audit,
	})
	require.NoError(t, err)
	require.NotNil(t, built.Engine)

	assert.ElementsMatch(t, []string{
		domain.SweepSpawn, domain.SweepIncome, domain.SweepDespawn, domain.SweepAuditCleanup,
	}, built.Scheduler.Names())

	report, err := built.Engine.TriggerSweep(ctx, domain.SweepDespawn)
	require.NoError(t, err)
	assert.Equal(t, domain.SweepDespawn, report.Sweep)
}

func TestGracefulShutdown_NilComponents(t *testing.T) {
	assert.NotPanics(t, func() { GracefulShutdown(context.Background(), ShutdownComponents{}) })
}
