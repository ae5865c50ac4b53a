package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/repository"
)

// Store implements repository.Store for PostgreSQL
type Store struct {
	queries
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a new Store on an open pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{queries: queries{db: pool}, pool: pool}
}

// BeginTx starts a new transaction
func (s *Store) BeginTx(ctx context.Context) (repository.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &Tx{queries: queries{db: tx}, tx: tx}, nil
}

// Ping checks the pool can reach the database
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the pool
func (s *Store) Close() {
	s.pool.Close()
}

// ListActiveConsumables returns every consumable due to spawn at now
func (s *Store) ListActiveConsumables(ctx context.Context, now time.Time) ([]domain.PlacedConsumable, error) {
	return s.listConsumables(ctx, queryListActiveConsumables, now)
}

// ListConsumables returns the owner's placed consumables
func (s *Store) ListConsumables(ctx context.Context, ownerID string) ([]domain.PlacedConsumable, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return nil, err
	}
	return s.listConsumables(ctx, queryListConsumables, owner)
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
	tag, err := s.pool.Exec(ctx, queryMarkMatured, creatureID, at)
	if err != nil {
		return false, fmt.Errorf("failed to mark creature matured: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// DespawnExpired removes wild creatures past their despawn time
func (s *Store) DespawnExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, queryDespawnExpired, now)
	if err != nil {
		return 0, fmt.Errorf("failed to despawn creatures: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetInventory returns the owner's non-empty stacks
func (s *Store) GetInventory(ctx context.Context, ownerID string) ([]domain.InventoryStack, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, queryGetInventory, owner)
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
	rows, err := s.pool.Query(ctx, queryListBalances)
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
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, queryListLedger, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}
	defer rows.Close()

	out := []domain.LedgerEntry{}
	for rows.Next() {
		var e domain.LedgerEntry
		var source string
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Amount, &source, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan ledger: %w", err)
		}
		e.SourceType = domain.LedgerSource(source)
		out = append(out, e)
	}
	return out, rows.Err()
}
