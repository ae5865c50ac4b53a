package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/repository"
)

// Tx implements repository.Tx
type Tx struct {
	queries
	tx pgx.Tx
}

var _ repository.Tx = (*Tx)(nil)

// LockOwner takes a transaction-scoped advisory lock on the owner's field.
// It works before any of the owner's rows exist.
func (t *Tx) LockOwner(ctx context.Context, ownerID string) error {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return err
	}
	if _, err := t.tx.Exec(ctx, queryLockOwner, owner.String(), ownerLockScope); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLockOwner, err)
	}
	return nil
}

// GetConsumable reads a consumable by id
func (t *Tx) GetConsumable(ctx context.Context, id int64) (*domain.PlacedConsumable, error) {
	c, err := scanConsumable(t.tx.QueryRow(ctx, queryGetConsumable, id))
	if err != nil {
		return nil, notFound(err, "consumable")
	}
	return c, nil
}

// GetConsumableAt reads the consumable on a field cell
func (t *Tx) GetConsumableAt(ctx context.Context, ownerID string, fieldIndex int) (*domain.PlacedConsumable, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return nil, err
	}
	c, err := scanConsumable(t.tx.QueryRow(ctx, queryGetConsumableAt, owner, fieldIndex))
	if err != nil {
		return nil, notFound(err, "consumable")
	}
	return c, nil
}

// InsertConsumable places a consumable and returns its id
func (t *Tx) InsertConsumable(ctx context.Context, c *domain.PlacedConsumable) (int64, error) {
	owner, err := parseOwnerUUID(c.OwnerID)
	if err != nil {
		return 0, err
	}
	var id int64
	err = t.tx.QueryRow(ctx, queryInsertConsumable, owner, c.FieldIndex, c.AssetID, int16(c.Rarity),
		c.PlacedAt, c.ExpiresAt, c.NextSpawnAt, c.SpawnCount, c.MaxSpawns, c.Exhausted).Scan(&id)
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
	tag, err := t.tx.Exec(ctx, queryDeleteConsumable, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete consumable: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AdvanceSpawn records one spawn if spawn_count is still expectedCount
func (t *Tx) AdvanceSpawn(ctx context.Context, id int64, expectedCount int, nextSpawnAt time.Time) (bool, error) {
	tag, err := t.tx.Exec(ctx, queryAdvanceSpawn, id, expectedCount, nextSpawnAt)
	if err != nil {
		return false, fmt.Errorf("failed to advance spawn: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ForceExhaust marks a consumable exhausted regardless of its counters
func (t *Tx) ForceExhaust(ctx context.Context, id int64) error {
	if _, err := t.tx.Exec(ctx, queryForceExhaust, id); err != nil {
		return fmt.Errorf("failed to exhaust consumable: %w", err)
	}
	return nil
}

// GetCreatureAt reads the wild creature on a field cell
func (t *Tx) GetCreatureAt(ctx context.Context, ownerID string, fieldIndex int) (*domain.SpawnedCreature, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return nil, err
	}
	c, err := scanCreature(t.tx.QueryRow(ctx, queryGetCreatureAt, owner, fieldIndex))
	if err != nil {
		return nil, notFound(err, "creature")
	}
	return c, nil
}

// ExhibitSlotTaken reports whether an exhibition slot holds a creature
func (t *Tx) ExhibitSlotTaken(ctx context.Context, ownerID string, slot int) (bool, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return false, err
	}
	var taken bool
	if err := t.tx.QueryRow(ctx, queryExhibitSlotTaken, owner, slot).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check exhibit slot: %w", err)
	}
	return taken, nil
}

// InsertCreature stores a creature and returns its id
func (t *Tx) InsertCreature(ctx context.Context, c *domain.SpawnedCreature) (int64, error) {
	owner, err := parseOwnerUUID(c.OwnerID)
	if err != nil {
		return 0, err
	}
	var id int64
	err = t.tx.QueryRow(ctx, queryInsertCreature, owner, string(c.Location), c.Slot, int16(c.Rarity), c.AssetID,
		c.SourceConsumableID, c.PlacedAt, c.DespawnAt, c.Discount.Milliseconds(), c.MaturedAt).Scan(&id)
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
	tag, err := t.tx.Exec(ctx, queryDeleteCreature, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete creature: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// InsertLike records a like once per liker
func (t *Tx) InsertLike(ctx context.Context, creatureID int64, likerID string, at time.Time) (bool, error) {
	liker, err := parseOwnerUUID(likerID)
	if err != nil {
		return false, err
	}
	tag, err := t.tx.Exec(ctx, queryInsertLike, creatureID, liker, at)
	if err != nil {
		return false, fmt.Errorf("failed to insert like: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AddDiscount adds d to the creature's accumulated discount and returns the total
func (t *Tx) AddDiscount(ctx context.Context, creatureID int64, d time.Duration) (time.Duration, error) {
	var ms int64
	if err := t.tx.QueryRow(ctx, queryAddDiscount, creatureID, d.Milliseconds()).Scan(&ms); err != nil {
		return 0, notFound(err, "creature")
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// InsertFixture places a plant or decoration
func (t *Tx) InsertFixture(ctx context.Context, f *domain.FieldFixture) (int64, error) {
	owner, err := parseOwnerUUID(f.OwnerID)
	if err != nil {
		return 0, err
	}
	var id int64
	err = t.tx.QueryRow(ctx, queryInsertFixture, owner, f.FieldIndex, string(f.Kind), f.PlacedAt).Scan(&id)
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
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return false, err
	}
	tag, err := t.tx.Exec(ctx, queryDeleteFixtureAt, owner, fieldIndex)
	if err != nil {
		return false, fmt.Errorf("failed to delete fixture: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// EnsureBalance creates the owner's balance row if missing
func (t *Tx) EnsureBalance(ctx context.Context, ownerID string, anchor time.Time) error {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return err
	}
	if _, err := t.tx.Exec(ctx, queryEnsureBalance, owner, anchor); err != nil {
		return fmt.Errorf("failed to ensure balance: %w", err)
	}
	return nil
}

// AdvancePayout credits amount if last_payout_at is still expected
func (t *Tx) AdvancePayout(ctx context.Context, ownerID string, expected, next time.Time, amount int64) (bool, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return false, err
	}
	tag, err := t.tx.Exec(ctx, queryAdvancePayout, owner, expected, next, amount)
	if err != nil {
		return false, fmt.Errorf("failed to advance payout: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CreditBalance adds amount to the owner's balance and returns the new balance
func (t *Tx) CreditBalance(ctx context.Context, ownerID string, amount int64) (int64, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return 0, err
	}
	var balance int64
	if err := t.tx.QueryRow(ctx, queryCreditBalance, owner, amount).Scan(&balance); err != nil {
		return 0, notFound(err, "balance")
	}
	return balance, nil
}

// InsertLedger appends a ledger entry and sets its id
func (t *Tx) InsertLedger(ctx context.Context, e *domain.LedgerEntry) error {
	owner, err := parseOwnerUUID(e.OwnerID)
	if err != nil {
		return err
	}
	err = t.tx.QueryRow(ctx, queryInsertLedger, owner, e.Amount, string(e.SourceType), e.Timestamp).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}
	return nil
}

// Commit commits the transaction
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommit, err)
	}
	return nil
}

// Rollback rolls back the transaction. Rolling back a finished transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
