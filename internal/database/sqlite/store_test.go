package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/repository"
)

var baseTime = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "economy.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.EqualError(t, err, ErrMsgEmptyPath)
}

// A single store serialises callers on its one connection
func TestStore_ConcurrentFirstAcquire(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.UpsertStack(ctx, owner, 42, domain.Rarity(0), 1, baseTime)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stacks, err := store.GetInventory(ctx, owner)
	require.NoError(t, err)
	require.Len(t, stacks, 1)
	assert.Equal(t, 2, stacks[0].Quantity)
	assert.True(t, stacks[0].UpdatedAt.Equal(baseTime))
}

// Two stores on one file hold separate connections, so their first upserts race
// on the database lock rather than on the pool.
func TestStore_ConcurrentFirstAcquireAcrossConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	ctx := context.Background()
	stores := make([]*Store, 2)
	for i := range stores {
		s, err := Open(ctx, path)
		require.NoError(t, err)
		t.Cleanup(s.Close)
		stores[i] = s
	}
	owner := uuid.NewString()

	const workers = 8
	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(store *Store) {
			defer wg.Done()
			<-start
			_, err := store.UpsertStack(ctx, owner, 42, domain.Rarity(0), 1, baseTime)
			errs <- err
		}(stores[i%len(stores)])
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	for _, store := range stores {
		stacks, err := store.GetInventory(ctx, owner)
		require.NoError(t, err)
		require.Len(t, stacks, 1)
		assert.Equal(t, workers, stacks[0].Quantity)
	}
}

func TestStore_ConsumeStackGuard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()

	_, err := store.UpsertStack(ctx, owner, 7, domain.Rarity(1), 2, baseTime)
	require.NoError(t, err)

	_, ok, err := store.ConsumeStack(ctx, owner, 7, 3, baseTime)
	require.NoError(t, err)
	assert.False(t, ok)

	left, ok, err := store.ConsumeStack(ctx, owner, 7, 2, baseTime)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, left)

	stacks, err := store.GetInventory(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, stacks)

	_, ok, err = store.ConsumeStack(ctx, owner, 999, 1, baseTime)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_RejectsMalformedOwner(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetInventory(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTx_SpawnCompareAndSet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	require.NoError(t, tx.LockOwner(ctx, owner))
	id, err := tx.InsertConsumable(ctx, &domain.PlacedConsumable{
		OwnerID:     owner,
		FieldIndex:  9,
		AssetID:     701,
		Rarity:      domain.Rarity(2),
		PlacedAt:    baseTime,
		ExpiresAt:   baseTime.Add(time.Hour),
		NextSpawnAt: baseTime.Add(time.Minute),
		MaxSpawns:   2,
	})
	require.NoError(t, err)

	ok, err := tx.AdvanceSpawn(ctx, id, 0, baseTime.Add(3*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tx.AdvanceSpawn(ctx, id, 0, baseTime.Add(5*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "stale expected count loses")

	ok, err = tx.AdvanceSpawn(ctx, id, 1, baseTime.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "next spawn never moves backwards")

	ok, err = tx.AdvanceSpawn(ctx, id, 1, baseTime.Add(6*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tx.AdvanceSpawn(ctx, id, 2, baseTime.Add(9*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "never beyond max_spawns")

	c, err := tx.GetConsumable(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, c.SpawnCount)
	assert.True(t, c.Exhausted)
	assert.True(t, c.NextSpawnAt.Equal(baseTime.Add(6*time.Minute)))
	require.NoError(t, tx.Commit(ctx))

	active, err := store.ListActiveConsumables(ctx, baseTime.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestStore_ListActiveConsumables(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	due := &domain.PlacedConsumable{OwnerID: owner, FieldIndex: 0, AssetID: 501, PlacedAt: baseTime,
		ExpiresAt: baseTime.Add(time.Hour), NextSpawnAt: baseTime.Add(time.Minute), MaxSpawns: 3}
	notYet := &domain.PlacedConsumable{OwnerID: owner, FieldIndex: 1, AssetID: 501, PlacedAt: baseTime,
		ExpiresAt: baseTime.Add(time.Hour), NextSpawnAt: baseTime.Add(time.Hour), MaxSpawns: 3}
	expired := &domain.PlacedConsumable{OwnerID: owner, FieldIndex: 2, AssetID: 501, PlacedAt: baseTime,
		ExpiresAt: baseTime.Add(2 * time.Minute), NextSpawnAt: baseTime, MaxSpawns: 3}
	for _, c := range []*domain.PlacedConsumable{due, notYet, expired} {
		c.ID, err = tx.InsertConsumable(ctx, c)
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit(ctx))

	active, err := store.ListActiveConsumables(ctx, baseTime.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, due.ID, active[0].ID)
	assert.Equal(t, owner, active[0].OwnerID)
}

func TestTx_FieldCells(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()
	despawnAt := baseTime.Add(time.Hour)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	_, err = tx.InsertConsumable(ctx, &domain.PlacedConsumable{
		OwnerID: owner, FieldIndex: 0, AssetID: 501, PlacedAt: baseTime,
		ExpiresAt: baseTime.Add(time.Hour), NextSpawnAt: baseTime, MaxSpawns: 1,
	})
	require.NoError(t, err)
	_, err = tx.InsertCreature(ctx, &domain.SpawnedCreature{
		OwnerID: owner, Location: domain.LocationField, Slot: 1, AssetID: 5,
		PlacedAt: baseTime, DespawnAt: &despawnAt,
	})
	require.NoError(t, err)
	_, err = tx.InsertCreature(ctx, &domain.SpawnedCreature{
		OwnerID: owner, Location: domain.LocationExhibit, Slot: 3, AssetID: 5, PlacedAt: baseTime,
	})
	require.NoError(t, err)
	_, err = tx.InsertFixture(ctx, &domain.FieldFixture{
		OwnerID: owner, FieldIndex: 2, Kind: domain.FixturePlant, PlacedAt: baseTime,
	})
	require.NoError(t, err)

	consumables, err := tx.ConsumableCells(ctx, owner)
	require.NoError(t, err)
	creatures, err := tx.FieldCreatureCells(ctx, owner)
	require.NoError(t, err)
	fixtures, err := tx.FixtureCells(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, consumables)
	assert.Equal(t, []int{1}, creatures, "exhibited creatures hold no field cell")
	assert.Equal(t, []int{2}, fixtures)

	_, err = tx.InsertFixture(ctx, &domain.FieldFixture{
		OwnerID: owner, FieldIndex: 2, Kind: domain.FixtureDecoration, PlacedAt: baseTime,
	})
	reason, ok := domain.ConflictReasonOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.ReasonSlotOccupied, reason)

	taken, err := tx.ExhibitSlotTaken(ctx, owner, 3)
	require.NoError(t, err)
	assert.True(t, taken)

	c, err := tx.GetCreatureAt(ctx, owner, 1)
	require.NoError(t, err)
	require.NotNil(t, c.DespawnAt)
	assert.True(t, c.DespawnAt.Equal(despawnAt))

	_, err = tx.GetCreatureAt(ctx, owner, 3)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTx_LikesAndDiscount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner, liker := uuid.NewString(), uuid.NewString()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer repository.SafeRollback(ctx, tx)

	id, err := tx.InsertCreature(ctx, &domain.SpawnedCreature{
		OwnerID: owner, Location: domain.LocationExhibit, Slot: 0, AssetID: 5, PlacedAt: baseTime,
	})
	require.NoError(t, err)

	first, err := tx.InsertLike(ctx, id, liker, baseTime)
	require.NoError(t, err)
	again, err := tx.InsertLike(ctx, id, liker, baseTime.Add(time.Second))
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, again)

	total, err := tx.AddDiscount(ctx, id, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, total)

	_, err = tx.AddDiscount(ctx, id+100, time.Minute)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTx_IncomeCompareAndSet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.EnsureBalance(ctx, owner, baseTime))
	require.NoError(t, tx.EnsureBalance(ctx, owner, baseTime.Add(time.Hour)), "second ensure is a no-op")

	ok, err := tx.AdvancePayout(ctx, owner, baseTime, baseTime.Add(10*time.Minute), 9)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = tx.AdvancePayout(ctx, owner, baseTime, baseTime.Add(20*time.Minute), 9)
	require.NoError(t, err)
	assert.False(t, ok)

	balance, err := tx.CreditBalance(ctx, owner, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(109), balance)

	require.NoError(t, tx.InsertLedger(ctx, &domain.LedgerEntry{
		OwnerID: owner, Amount: 9, SourceType: domain.LedgerSourceIncome, Timestamp: baseTime.Add(10 * time.Minute),
	}))
	require.NoError(t, tx.Commit(ctx))

	b, err := store.GetBalance(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(109), b.Balance)
	assert.True(t, b.LastPayoutAt.Equal(baseTime.Add(10*time.Minute)))

	balances, err := store.ListBalances(ctx)
	require.NoError(t, err)
	assert.Len(t, balances, 1)

	ledger, err := store.ListLedger(ctx, owner, 10)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, int64(9), ledger[0].Amount)
}

func TestStore_MarkMaturedOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	id, err := tx.InsertCreature(ctx, &domain.SpawnedCreature{
		OwnerID: owner, Location: domain.LocationExhibit, Slot: 0, AssetID: 5, PlacedAt: baseTime,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	ok, err := store.MarkMatured(ctx, id, baseTime.Add(24*time.Hour))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.MarkMatured(ctx, id, baseTime.Add(25*time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	c, err := store.GetCreature(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, c.MaturedAt)
	assert.True(t, c.MaturedAt.Equal(baseTime.Add(24*time.Hour)))
}

func TestStore_DespawnExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()
	soon := baseTime.Add(time.Minute)
	later := baseTime.Add(time.Hour)

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	for i, at := range []*time.Time{&soon, &later, nil} {
		_, err := tx.InsertCreature(ctx, &domain.SpawnedCreature{
			OwnerID: owner, Location: domain.LocationField, Slot: i, AssetID: 3, PlacedAt: baseTime, DespawnAt: at,
		})
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit(ctx))

	n, err := store.DespawnExpired(ctx, baseTime.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := store.ListFieldCreatures(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner := uuid.NewString()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	_, err = tx.UpsertStack(ctx, owner, 1, domain.Rarity(0), 5, baseTime)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
	require.NoError(t, tx.Rollback(ctx), "second rollback is a no-op")

	stacks, err := store.GetInventory(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, stacks)
}
