package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/repository"
)

// Tx implements repository.Tx
type Tx struct {
	queries
	tx *sql.Tx
}

var _ repository.Tx = (*Tx)(nil)

// LockOwner only validates the owner. The single connection already serialises writers.
func (t *Tx) LockOwner(ctx context.Context, ownerID string) error {
	return checkOwner(ownerID)
}

// GetConsumable reads a consumable by id
func (t *Tx) GetConsumable(ctx context.Context, id int64) (*domain.PlacedConsumable, error) {
	c, err := scanConsumable(t.tx.QueryRowContext(ctx, queryGetConsumable, id))
	if err != nil {
		return nil, notFound(err, "consumable")
	}
	return c, nil
}

// GetConsumableAt reads the consumable on a field cell
func (t *Tx) GetConsumableAt(ctx context.Context, ownerID string, fieldIndex int) (*domain.PlacedConsumable, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := scanConsumable(t.tx.QueryRowContext(ctx, queryGetConsumableAt, ownerID, fieldIndex))
	if err != nil {
		return nil, notFound(err, "consumable")
	}
	return c, nil
}

// InsertConsumable places a consumable and returns its id
func (t *Tx) InsertConsumable(ctx context.Context, c *domain.PlacedConsumable) (int64, error) {
	if err := checkOwner(c.OwnerID); err != nil {
		return 0, err
	}
	var id int64
	err := t.tx.QueryRowContext(ctx, queryInsertConsumable, c.OwnerID, c.FieldIndex, c.AssetID, int(c.Rarity),
		toMillis(c.PlacedAt), toMillis(c.ExpiresAt), toMillis(c.NextSpawnAt), c.SpawnCount, c.MaxSpawns,
		c.Exhausted).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.NewConflictError(domain.ReasonSlotOccupied, "consumable")
		}
		return 0, fmt.Errorf("failed to insert consumable: %w", err)
	}
	return id, nil
}

// DeleteConsumable removes a consumable
func (t *Tx) DeleteConsumable(ctx context.Context, id int64) (bool, error) {
	res, err := t.tx.ExecContext(ctx, queryDeleteConsumable, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete consumable: %w", err)
	}
	return affectedOne(res)
}

// AdvanceSpawn records one spawn if spawn_count is still expectedCount
func (t *Tx) AdvanceSpawn(ctx context.Context, id int64, expectedCount int, nextSpawnAt time.Time) (bool, error) {
	next := toMillis(nextSpawnAt)
	res, err := t.tx.ExecContext(ctx, queryAdvanceSpawn, next, id, expectedCount, next)
	if err != nil {
		return false, fmt.Errorf("failed to advance spawn: %w", err)
	}
	return affectedOne(res)
}

// ForceExhaust marks a consumable exhausted regardless of its counters
func (t *Tx) ForceExhaust(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, queryForceExhaust, id); err != nil {
		return fmt.Errorf("failed to exhaust consumable: %w", err)
	}
	return nil
}

// GetCreatureAt reads the wild creature on a field cell
func (t *Tx) GetCreatureAt(ctx context.Context, ownerID string, fieldIndex int) (*domain.SpawnedCreature, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	c, err := scanCreature(t.tx.QueryRowContext(ctx, queryGetCreatureAt, ownerID, fieldIndex))
	if err != nil {
		return nil, notFound(err, "creature")
	}
	return c, nil
}

// ExhibitSlotTaken reports whether an exhibition slot holds a creature
func (t *Tx) ExhibitSlotTaken(ctx context.Context, ownerID string, slot int) (bool, error) {
	if err := checkOwner(ownerID); err != nil {
		return false, err
	}
	var taken bool
	if err := t.tx.QueryRowContext(ctx, queryExhibitSlotTaken, ownerID, slot).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check exhibit slot: %w", err)
	}
	return taken, nil
}

// InsertCreature stores a creature and returns its id
func (t *Tx) InsertCreature(ctx context.Context, c *domain.SpawnedCreature) (int64, error) {
	if err := checkOwner(c.OwnerID); err != nil {
		return 0, err
	}
	var id int64
	err := t.tx.QueryRowContext(ctx, queryInsertCreature, c.OwnerID, string(c.Location), c.Slot, int(c.Rarity),
		c.AssetID, nullInt64(c.SourceConsumableID), toMillis(c.PlacedAt), nullMillis(c.DespawnAt),
		c.Discount.Milliseconds(), nullMillis(c.MaturedAt)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.NewConflictError(domain.ReasonSlotOccupied, string(c.Location))
		}
		return 0, fmt.Errorf("failed to insert creature: %w", err)
	}
	return id, nil
}

// DeleteCreature removes a creature
func (t *Tx) DeleteCreature(ctx context.Context, id int64) (bool, error) {
	res, err := t.tx.ExecContext(ctx, queryDeleteCreature, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete creature: %w", err)
	}
	return affectedOne(res)
}

// InsertLike records a like once per liker
func (t *Tx) InsertLike(ctx context.Context, creatureID int64, likerID string, at time.Time) (bool, error) {
	if err := checkOwner(likerID); err != nil {
		return false, err
	}
	res, err := t.tx.ExecContext(ctx, queryInsertLike, creatureID, likerID, toMillis(at))
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	return affectedOne(res)
}

// AddDiscount adds d to the creature's accumulated discount and returns the total
func (t *Tx) AddDiscount(ctx context.Context, creatureID int64, d time.Duration) (time.Duration, error) {
	var ms int64
	if err := t.tx.QueryRowContext(ctx, queryAddDiscount, d.Milliseconds(), creatureID).Scan(&ms); err != nil {
		return 0, notFound(err, "creature")
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// InsertFixture places a plant or decoration
func (t *Tx) InsertFixture(ctx context.Context, f *domain.FieldFixture) (int64, error) {
	if err := checkOwner(f.OwnerID); err != nil {
		return 0, err
	}
	var id int64
	err := t.tx.QueryRowContext(ctx, queryInsertFixture, f.OwnerID, f.FieldIndex, string(f.Kind),
		toMillis(f.PlacedAt)).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.NewConflictError(domain.ReasonSlotOccupied, "fixture")
		}
		return 0, fmt.Errorf("failed to insert fixture: %w", err)
	}
	return id, nil
}

// DeleteFixtureAt removes the fixture on a field cell
func (t *Tx) DeleteFixtureAt(ctx context.Context, ownerID string, fieldIndex int) (bool, error) {
	if err := checkOwner(ownerID); err != nil {
		return false, err
	}
	res, err := t.tx.ExecContext(ctx, queryDeleteFixtureAt, ownerID, fieldIndex)
	if err != nil {
		return false, fmt.Errorf("failed to delete fixture: %w", err)
	}
	return affectedOne(res)
}

// EnsureBalance creates the owner's balance row if missing
func (t *Tx) EnsureBalance(ctx context.Context, ownerID string, anchor time.Time) error {
	if err := checkOwner(ownerID); err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, queryEnsureBalance, ownerID, toMillis(anchor)); err != nil {
		return fmt.Errorf("failed to ensure balance: %w", err)
	}
	return nil
}

// AdvancePayout credits amount if last_payout_at is still expected
func (t *Tx) AdvancePayout(ctx context.Context, ownerID string, expected, next time.Time, amount int64) (bool, error) {
	if err := checkOwner(ownerID); err != nil {
		return false, err
	}
	res, err := t.tx.ExecContext(ctx, queryAdvancePayout, amount, toMillis(next), ownerID, toMillis(expected))
	if err != nil {
		return false, fmt.Errorf("failed to advance payout: %w", err)
	}
	return affectedOne(res)
}

// CreditBalance adds amount to the owner's balance and returns the new balance
func (t *Tx) CreditBalance(ctx context.Context, ownerID string, amount int64) (int64, error) {
	if err := checkOwner(ownerID); err != nil {
		return 0, err
	}
	var balance int64
	if err := t.tx.QueryRowContext(ctx, queryCreditBalance, amount, ownerID).Scan(&balance); err != nil {
		return 0, notFound(err, "balance")
	}
	return balance, nil
}

// InsertLedger appends a ledger entry and sets its id
func (t *Tx) InsertLedger(ctx context.Context, e *domain.LedgerEntry) error {
	if err := checkOwner(e.OwnerID); err != nil {
		return err
	}
	err := t.tx.QueryRowContext(ctx, queryInsertLedger, e.OwnerID, e.Amount, string(e.SourceType),
		toMillis(e.Timestamp)).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// Commit commits the transaction
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommit, err)
	}
	return nil
}

// Rollback rolls back the transaction. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
