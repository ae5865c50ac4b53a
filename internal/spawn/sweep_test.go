package spawn

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/database/sqlite"
	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/field"
	"github.com/osse101/Critterfield_Go/internal/rarity"
	"github.com/osse101/Critterfield_Go/internal/repository"
	"github.com/osse101/Critterfield_Go/internal/testing/economytest"
	"github.com/osse101/Critterfield_Go/internal/utils"
)

var baseTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store   *sqlite.Store
	econ    *config.Economy
	table   *rarity.Table
	planner *Planner
	sweep   *Sweep

	mu      sync.Mutex
	spawned []event.CreaturePayloadV1
}

func newFixture(t *testing.T, econ *config.Economy, seed int64) *fixture {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "spawn.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	rng := utils.NewRand(seed)
	table, err := rarity.NewTable(econ, rng)
	require.NoError(t, err)

	f := &fixture{store: store, econ: econ, table: table}
	f.planner = NewPlanner(econ, table, rng)
	resolver := field.NewResolver(field.Grid{Width: econ.Grid.Width, Height: econ.Grid.Height}, store, rng)

	bus := event.NewMemoryBus()
	bus.Subscribe(event.CreatureSpawned, func(ctx context.Context, e event.Event) error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.spawned = append(f.spawned, e.Payload.(event.CreaturePayloadV1))
		return nil
	})
	f.sweep = NewSweep(store, f.planner, resolver, bus, econ.SweepParallelism)
	return f
}

func (f *fixture) place(t *testing.T, c *domain.PlacedConsumable) int64 {
	t.Helper()
	ctx := context.Background()
	tx, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)
	id, err := tx.InsertConsumable(ctx, c)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))
	c.ID = id
	return id
}

func (f *fixture) fixtures(t *testing.T, owner string, cells ...int) {
	t.Helper()
	ctx := context.Background()
	tx, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)
	for _, cell := range cells {
		_, err := tx.InsertFixture(ctx, &domain.FieldFixture{
			OwnerID: owner, FieldIndex: cell, Kind: domain.FixtureDecoration, PlacedAt: baseTime,
		})
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit(ctx))
}

func (f *fixture) consumable(t *testing.T, id int64) *domain.PlacedConsumable {
	t.Helper()
	ctx := context.Background()
	tx, err := f.store.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)
	c, err := tx.GetConsumable(ctx, id)
	require.NoError(t, err)
	return c
}

func (f *fixture) runMinutes(t *testing.T, from time.Time, minutes int) {
	t.Helper()
	for m := 1; m <= minutes; m++ {
		_, err := f.sweep.Sweep(context.Background(), from.Add(time.Duration(m)*time.Minute))
		require.NoError(t, err)
	}
}

func TestSweep_RareConsumableScenario(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		f := newFixture(t, economytest.Economy(), seed)
		owner := uuid.NewString()
		origin := 27 // (3,3) on the 8x8 grid

		c := f.planner.Plan(owner, origin, 701, baseTime)
		require.Equal(t, economytest.Rare, c.Rarity)
		require.GreaterOrEqual(t, c.MaxSpawns, 2)
		require.LessOrEqual(t, c.MaxSpawns, 4)
		f.place(t, c)

		f.runMinutes(t, baseTime, 21)

		creatures, err := f.store.ListFieldCreatures(context.Background(), owner)
		require.NoError(t, err)
		assert.Len(t, creatures, c.MaxSpawns, "seed %d", seed)

		neighbours := map[int]bool{}
		for _, n := range (field.Grid{Width: 8, Height: 8}).Neighbors(origin) {
			neighbours[n] = true
		}
		rareIDs := f.table.Tier(economytest.Rare).CreatureIDs
		for _, cr := range creatures {
			assert.True(t, neighbours[cr.Slot], "cell %d outside the Moore neighbourhood", cr.Slot)
			assert.Equal(t, economytest.Rare, cr.Rarity)
			assert.True(t, rareIDs.Contains(cr.AssetID), "asset %d", cr.AssetID)
			require.NotNil(t, cr.SourceConsumableID)
			assert.Equal(t, c.ID, *cr.SourceConsumableID)
			require.NotNil(t, cr.DespawnAt)
			assert.Equal(t, 24*time.Hour, cr.DespawnAt.Sub(cr.PlacedAt))
		}

		after := f.consumable(t, c.ID)
		assert.Equal(t, c.MaxSpawns, after.SpawnCount)
		assert.True(t, after.Exhausted)
		assert.Len(t, f.spawned, c.MaxSpawns)
	}
}

func TestSweep_NeverSpawnsAfterExpiry(t *testing.T) {
	econ := economytest.Economy()
	econ.ConsumableLifetimeMs = (90 * time.Second).Milliseconds()
	econ.SpawnCountRange = []int{4, 4}
	econ.SpawnDelayRangeMs = []int64{60_000, 60_000}
	f := newFixture(t, econ, 7)
	owner := uuid.NewString()

	c := f.planner.Plan(owner, 27, 501, baseTime)
	f.place(t, c)

	f.runMinutes(t, baseTime, 10)

	creatures, err := f.store.ListFieldCreatures(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, creatures, 1, "only the spawn at +1m precedes expiry at +90s")
	assert.True(t, creatures[0].PlacedAt.Before(c.ExpiresAt))

	after := f.consumable(t, c.ID)
	assert.Equal(t, 1, after.SpawnCount)
	assert.False(t, after.Exhausted)
	assert.True(t, after.IsHarvestable(baseTime.Add(2*time.Minute)))
}

func TestSweep_FullNeighbourhoodDefers(t *testing.T) {
	f := newFixture(t, economytest.Economy(), 3)
	owner := uuid.NewString()
	origin := 0 // corner: neighbours 1, 8, 9

	c := &domain.PlacedConsumable{
		OwnerID: owner, FieldIndex: origin, AssetID: 501, PlacedAt: baseTime,
		ExpiresAt: baseTime.Add(time.Hour), NextSpawnAt: baseTime, MaxSpawns: 3,
	}
	f.place(t, c)
	f.fixtures(t, owner, 1, 8, 9)

	report, err := f.sweep.Sweep(context.Background(), baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Applied)

	after := f.consumable(t, c.ID)
	assert.Zero(t, after.SpawnCount)
	assert.True(t, after.NextSpawnAt.Equal(baseTime), "next spawn untouched while blocked")
	assert.Empty(t, f.spawned)
}

func TestSweep_FillsOnlyFreeCells(t *testing.T) {
	econ := economytest.Economy()
	econ.SpawnCountRange = []int{3, 3}
	f := newFixture(t, econ, 11)
	owner := uuid.NewString()

	c := &domain.PlacedConsumable{
		OwnerID: owner, FieldIndex: 0, AssetID: 501, PlacedAt: baseTime,
		ExpiresAt: baseTime.Add(time.Hour), NextSpawnAt: baseTime, MaxSpawns: 3,
	}
	f.place(t, c)
	f.fixtures(t, owner, 1)

	f.runMinutes(t, baseTime, 21)

	creatures, err := f.store.ListFieldCreatures(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, creatures, 2, "two free neighbours")
	cells := []int{creatures[0].Slot, creatures[1].Slot}
	assert.ElementsMatch(t, []int{8, 9}, cells)

	after := f.consumable(t, c.ID)
	assert.Equal(t, 2, after.SpawnCount)
	assert.False(t, after.Exhausted)
}

func TestSweep_RepairsOverspentConsumable(t *testing.T) {
	f := newFixture(t, economytest.Economy(), 5)
	owner := uuid.NewString()

	c := &domain.PlacedConsumable{
		OwnerID: owner, FieldIndex: 27, AssetID: 501, PlacedAt: baseTime,
		ExpiresAt: baseTime.Add(time.Hour), NextSpawnAt: baseTime, SpawnCount: 5, MaxSpawns: 3,
	}
	f.place(t, c)

	report, err := f.sweep.Sweep(context.Background(), baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, report.Applied)
	assert.Zero(t, report.Failed)

	after := f.consumable(t, c.ID)
	assert.True(t, after.Exhausted)
	assert.Equal(t, 5, after.SpawnCount)

	creatures, err := f.store.ListFieldCreatures(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, creatures)

	report, err = f.sweep.Sweep(context.Background(), baseTime.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Zero(t, report.Scanned, "exhausted consumables are no longer listed")
}

func TestSweep_ManyOwnersInParallel(t *testing.T) {
	f := newFixture(t, economytest.Economy(), 9)
	owners := make([]string, 6)
	for i := range owners {
		owners[i] = uuid.NewString()
		f.place(t, &domain.PlacedConsumable{
			OwnerID: owners[i], FieldIndex: 27, AssetID: 601, Rarity: economytest.Uncommon,
			PlacedAt: baseTime, ExpiresAt: baseTime.Add(time.Hour), NextSpawnAt: baseTime, MaxSpawns: 2,
		})
	}

	report, err := f.sweep.Sweep(context.Background(), baseTime.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 6, report.Scanned)
	assert.Equal(t, 6, report.Applied)

	for _, owner := range owners {
		creatures, err := f.store.ListFieldCreatures(context.Background(), owner)
		require.NoError(t, err)
		assert.Len(t, creatures, 1)
	}
}
