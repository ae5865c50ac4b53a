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

// querier is the subset shared by *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds the statements both the database and a transaction can run
type queries struct {
	db querier
}

func (q queries) cells(ctx context.Context, query, ownerID, what string) ([]int, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s cells: %w", what, err)
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var cell int
		if err := rows.Scan(&cell); err != nil {
			return nil, fmt.Errorf("failed to scan %s cells: %w", what, err)
		}
		out = append(out, cell)
	}
	return out, rows.Err()
}

func (q queries) ConsumableCells(ctx context.Context, ownerID string) ([]int, error) {
	return q.cells(ctx, queryConsumableCells, ownerID, "consumable")
}

func (q queries) FieldCreatureCells(ctx context.Context, ownerID string) ([]int, error) {
	return q.cells(ctx, queryFieldCreatureCells, ownerID, "creature")
}

func (q queries) FixtureCells(ctx context.Context, ownerID string) ([]int, error) {
	return q.cells(ctx, queryFixtureCells, ownerID, "fixture")
}

func (q queries) UpsertStack(ctx context.Context, ownerID string, assetID int64, rarity domain.Rarity, qty int, now time.Time) (int, error) {
	if err := checkOwner(ownerID); err != nil {
		return 0, err
	}
	var quantity int
	err := q.db.QueryRowContext(ctx, queryUpsertStack, ownerID, assetID, int(rarity), qty, toMillis(now)).Scan(&quantity)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicateStack
		}
		return 0, fmt.Errorf("failed to upsert inventory stack: %w", err)
	}
	return quantity, nil
}

func (q queries) ConsumeStack(ctx context.Context, ownerID string, assetID int64, qty int, now time.Time) (int, bool, error) {
	if err := checkOwner(ownerID); err != nil {
		return 0, false, err
	}
	var quantity int
	err := q.db.QueryRowContext(ctx, queryConsumeStack, qty, toMillis(now), ownerID, assetID, qty).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to consume inventory stack: %w", err)
	}
	return quantity, true, nil
}

func (q queries) GetCreature(ctx context.Context, id int64) (*domain.SpawnedCreature, error) {
	c, err := scanCreature(q.db.QueryRowContext(ctx, queryGetCreature, id))
	if err != nil {
		return nil, notFound(err, "creature")
	}
	return c, nil
}

func (q queries) GetBalance(ctx context.Context, ownerID string) (*domain.OwnerBalance, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	b, err := scanBalance(q.db.QueryRowContext(ctx, queryGetBalance, ownerID))
	if err != nil {
		return nil, notFound(err, "balance")
	}
	return b, nil
}

func (q queries) listConsumables(ctx context.Context, query string, args ...any) ([]domain.PlacedConsumable, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list consumables: %w", err)
	}
	out, err := collect(rows, scanConsumable)
	if err != nil {
		return nil, fmt.Errorf("failed to scan consumables: %w", err)
	}
	return out, nil
}

func (q queries) listCreatures(ctx context.Context, ownerID string, location domain.CreatureLocation) ([]domain.SpawnedCreature, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	rows, err := q.db.QueryContext(ctx, queryListCreatures, ownerID, string(location))
	if err != nil {
		return nil, fmt.Errorf("failed to list creatures: %w", err)
	}
	out, err := collect(rows, scanCreature)
	if err != nil {
		return nil, fmt.Errorf("failed to scan creatures: %w", err)
	}
	return out, nil
}
