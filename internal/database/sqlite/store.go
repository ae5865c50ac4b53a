// Package sqlite is the single-node store. One connection serialises every write,
// so LockOwner has nothing to do. Callers must not use the Store while holding one
// of its transactions.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/osse101/Critterfield_Go/internal/database"
	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/repository"
)

// Store implements repository.Store on SQLite
type Store struct {
	queries
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path, applies pragmas and migrations
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%s", ErrMsgEmptyPath)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToOpen, err)
	}

	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToOpen, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s %q: %w", ErrMsgFailedToApplyPragma, p, err)
		}
	}
	if err := database.Migrate(ctx, db, database.DriverSQLite); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{queries: queries{db: db}, db: db}, nil
}

// BeginTx starts a new transaction
func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &Tx{queries: queries{db: tx}, tx: tx}, nil
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database
func (s *Store) Close() {
	_ = s.db.Close()
}

// ListActiveConsumables returns every consumable due to spawn at now
func (s *Store) ListActiveConsumables(ctx context.Context, now time.Time) ([]domain.PlacedConsumable, error) {
	ms := toMillis(now)
	return s.listConsumables(ctx, queryListActiveConsumables, ms, ms)
}

// ListConsumables returns the owner's placed consumables
func (s *Store) ListConsumables(ctx context.Context, ownerID string) ([]domain.PlacedConsumable, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	return s.listConsumables(ctx, queryListConsumables, ownerID)
}

// ListExhibited returns the owner's exhibited creatures
func (s *Store) ListExhibited(ctx context.Context, ownerID string) ([]domain.SpawnedCreature, error) {
	return s.listCreatures(ctx, ownerID, domain.LocationExhibit)
}

// ListFieldCreatures returns the owner's wild creatures
func (s *Store) ListFieldCreatures(ctx context.Context, ownerID string) ([]domain.SpawnedCreature, error) {
	return s.listCreatures(ctx, ownerID, domain.LocationField)
}

// MarkMatured sets matured_at if it is still unset
func (s *Store) MarkMatured(ctx context.Context, creatureID int64, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, queryMarkMatured, toMillis(at), creatureID)
	if err != nil {
		return false, fmt.Errorf("failed to mark creature matured: %w", err)
	}
	return affectedOne(res)
}

// DespawnExpired removes wild creatures past their despawn time
func (s *Store) DespawnExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, queryDespawnExpired, toMillis(now))
	if err != nil {
		return 0, fmt.Errorf("failed to despawn creatures: %w", err)
	}
	return res.RowsAffected()
}

// GetInventory returns the owner's non-empty stacks
func (s *Store) GetInventory(ctx context.Context, ownerID string) ([]domain.InventoryStack, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, queryGetInventory, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	out, err := collect(rows, scanStack)
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory: %w", err)
	}
	return out, nil
}

// ListBalances returns every owner balance
func (s *Store) ListBalances(ctx context.Context) ([]domain.OwnerBalance, error) {
	rows, err := s.db.QueryContext(ctx, queryListBalances)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	out, err := collect(rows, scanBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to scan balances: %w", err)
	}
	return out, nil
}

// ListLedger returns the owner's most recent ledger entries, newest first
func (s *Store) ListLedger(ctx context.Context, ownerID string, limit int) ([]domain.LedgerEntry, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, queryListLedger, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}
	defer rows.Close()

	out := []domain.LedgerEntry{}
	for rows.Next() {
		var (
			e      domain.LedgerEntry
			source string
			at     int64
		)
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Amount, &source, &at); err != nil {
			return nil, fmt.Errorf("failed to scan ledger: %w", err)
		}
		e.SourceType = domain.LedgerSource(source)
		e.Timestamp = fromMillis(at)
		out = append(out, e)
	}
	return out, rows.Err()
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
