package repository

import (
	"context"
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
)

// Tx defines the interface for transactional operations.
// Every read-compute-write in the economy runs inside one Tx that first takes the
// owner's lock, or is a single guarded statement.
type Tx interface {
	CellReader
	StackWriter

	// LockOwner serialises field and balance mutations for one owner until commit
	LockOwner(ctx context.Context, ownerID string) error

	GetConsumable(ctx context.Context, id int64) (*domain.PlacedConsumable, error)
	GetConsumableAt(ctx context.Context, ownerID string, fieldIndex int) (*domain.PlacedConsumable, error)
	InsertConsumable(ctx context.Context, c *domain.PlacedConsumable) (int64, error)
	DeleteConsumable(ctx context.Context, id int64) (bool, error)
	// AdvanceSpawn increments spawn_count and moves next_spawn_at forward only if the
	// row still has expectedCount spawns. It reports whether the row was updated.
	AdvanceSpawn(ctx context.Context, id int64, expectedCount int, nextSpawnAt time.Time) (bool, error)
	ForceExhaust(ctx context.Context, id int64) error

	GetCreature(ctx context.Context, id int64) (*domain.SpawnedCreature, error)
	GetCreatureAt(ctx context.Context, ownerID string, fieldIndex int) (*domain.SpawnedCreature, error)
	ExhibitSlotTaken(ctx context.Context, ownerID string, slot int) (bool, error)
	InsertCreature(ctx context.Context, c *domain.SpawnedCreature) (int64, error)
	DeleteCreature(ctx context.Context, id int64) (bool, error)
	// InsertLike records a like once per (creature, liker). False means it already existed.
	InsertLike(ctx context.Context, creatureID int64, likerID string, at time.Time) (bool, error)
	AddDiscount(ctx context.Context, creatureID int64, d time.Duration) (time.Duration, error)

	InsertFixture(ctx context.Context, f *domain.FieldFixture) (int64, error)
	DeleteFixtureAt(ctx context.Context, ownerID string, fieldIndex int) (bool, error)

	// EnsureBalance creates the owner's balance row anchored at anchor if it is missing
	EnsureBalance(ctx context.Context, ownerID string, anchor time.Time) error
	GetBalance(ctx context.Context, ownerID string) (*domain.OwnerBalance, error)
	// AdvancePayout credits amount and moves last_payout_at from expected to next.
	// False means another writer moved the anchor first.
	AdvancePayout(ctx context.Context, ownerID string, expected, next time.Time, amount int64) (bool, error)
	CreditBalance(ctx context.Context, ownerID string, amount int64) (int64, error)
	InsertLedger(ctx context.Context, e *domain.LedgerEntry) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
