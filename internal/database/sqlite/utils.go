package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/osse101/Critterfield_Go/internal/domain"
)

// checkOwner rejects owner ids that are not uuids, matching the postgres column type
func checkOwner(ownerID string) error {
	if _, err := uuid.Parse(ownerID); err != nil {
		return domain.NewValidationError("owner_id", domain.ErrMsgInvalidOwnerID)
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullMillis(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixMilli(), Valid: true}
}

func ptrTime(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromMillis(n.Int64)
	return &t
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func ptrInt64(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY constraint failure
func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// notFound maps sql.ErrNoRows to domain.ErrNotFound and wraps anything else
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanConsumable(row scanner) (*domain.PlacedConsumable, error) {
	var (
		c                                domain.PlacedConsumable
		rarity                           int
		placedAt, expiresAt, nextSpawnAt int64
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &c.FieldIndex, &c.AssetID, &rarity, &placedAt, &expiresAt,
		&nextSpawnAt, &c.SpawnCount, &c.MaxSpawns, &c.Exhausted); err != nil {
		return nil, err
	}
	c.Rarity = domain.Rarity(rarity)
	c.PlacedAt = fromMillis(placedAt)
	c.ExpiresAt = fromMillis(expiresAt)
	c.NextSpawnAt = fromMillis(nextSpawnAt)
	return &c, nil
}

func scanCreature(row scanner) (*domain.SpawnedCreature, error) {
	var (
		c                    domain.SpawnedCreature
		location             string
		rarity               int
		source               sql.NullInt64
		placedAt, discountMs int64
		despawnAt, maturedAt sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &location, &c.Slot, &rarity, &c.AssetID, &source,
		&placedAt, &despawnAt, &discountMs, &maturedAt); err != nil {
		return nil, err
	}
	c.Location = domain.CreatureLocation(location)
	c.Rarity = domain.Rarity(rarity)
	c.SourceConsumableID = ptrInt64(source)
	c.PlacedAt = fromMillis(placedAt)
	c.DespawnAt = ptrTime(despawnAt)
	c.MaturedAt = ptrTime(maturedAt)
	c.Discount = time.Duration(discountMs) * time.Millisecond
	return &c, nil
}

func scanStack(row scanner) (*domain.InventoryStack, error) {
	var (
		s         domain.InventoryStack
		rarity    int
		updatedAt int64
	)
	if err := row.Scan(&s.OwnerID, &s.AssetID, &rarity, &s.Quantity, &updatedAt); err != nil {
		return nil, err
	}
	s.Rarity = domain.Rarity(rarity)
	s.UpdatedAt = fromMillis(updatedAt)
	return &s, nil
}

func scanBalance(row scanner) (*domain.OwnerBalance, error) {
	var (
		b        domain.OwnerBalance
		payoutAt int64
	)
	if err := row.Scan(&b.OwnerID, &b.Balance, &payoutAt); err != nil {
		return nil, err
	}
	b.LastPayoutAt = fromMillis(payoutAt)
	return &b, nil
}

// collect drains rows through scan
func collect[T any](rows *sql.Rows, scan func(scanner) (*T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}
