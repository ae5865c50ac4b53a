package postgres

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/osse101/Critterfield_Go/internal/domain"
)

// ---- Common Helper Functions ----

// parseOwnerUUID parses an owner ID string to uuid.UUID with consistent error message.
func parseOwnerUUID(ownerID string) (uuid.UUID, error) {
	u, err := uuid.Parse(ownerID)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("owner_id", domain.ErrMsgInvalidOwnerID)
	}
	return u, nil
}

// ptrTime converts a pgtype.Timestamptz to *time.Time.
// Returns nil if the timestamp is not valid.
func ptrTime(t pgtype.Timestamptz) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// ptrInt64 converts a pgtype.Int8 to *int64.
// Returns nil if the int is not valid.
func ptrInt64(i pgtype.Int8) *int64 {
	if !i.Valid {
		return nil
	}
	v := i.Int64
	return &v
}

// isUniqueViolation reports whether err is a unique constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation
}

// notFound maps pgx.ErrNoRows to domain.ErrNotFound and wraps anything else
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// ---- Row scanners ----

func scanConsumable(row pgx.Row) (*domain.PlacedConsumable, error) {
	var c domain.PlacedConsumable
	var rarity int16
	if err := row.Scan(&c.ID, &c.OwnerID, &c.FieldIndex, &c.AssetID, &rarity, &c.PlacedAt, &c.ExpiresAt,
		&c.NextSpawnAt, &c.SpawnCount, &c.MaxSpawns, &c.Exhausted); err != nil {
		return nil, err
	}
	c.Rarity = domain.Rarity(rarity)
	return &c, nil
}

func scanCreature(row pgx.Row) (*domain.SpawnedCreature, error) {
	var (
		c          domain.SpawnedCreature
		location   string
		rarity     int16
		source     pgtype.Int8
		despawnAt  pgtype.Timestamptz
		maturedAt  pgtype.Timestamptz
		discountMs int64
	)
	if err := row.Scan(&c.ID, &c.OwnerID, &location, &c.Slot, &rarity, &c.AssetID, &source,
		&c.PlacedAt, &despawnAt, &discountMs, &maturedAt); err != nil {
		return nil, err
	}
	c.Location = domain.CreatureLocation(location)
	c.Rarity = domain.Rarity(rarity)
	c.SourceConsumableID = ptrInt64(source)
	c.DespawnAt = ptrTime(despawnAt)
	c.MaturedAt = ptrTime(maturedAt)
	c.Discount = time.Duration(discountMs) * time.Millisecond
	return &c, nil
}

func scanStack(row pgx.Row) (*domain.InventoryStack, error) {
	var s domain.InventoryStack
	var rarity int16
	if err := row.Scan(&s.OwnerID, &s.AssetID, &rarity, &s.Quantity, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Rarity = domain.Rarity(rarity)
	return &s, nil
}

func scanBalance(row pgx.Row) (*domain.OwnerBalance, error) {
	var b domain.OwnerBalance
	if err := row.Scan(&b.OwnerID, &b.Balance, &b.LastPayoutAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// collect drains rows through scan
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]T, error) {
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
