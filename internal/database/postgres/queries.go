package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/repository"
)

// querier is the subset shared by *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// queries holds the statements both the pool and a transaction can run
type queries struct {
	db querier
}

func (q queries) cells(ctx context.Context, sql, ownerID, what string) ([]int, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := q.db.Query(ctx, sql, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s cells: %w", what, err)
	}
	cells, err := pgx.CollectRows(rows, pgx.RowTo[int32])
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s cells: %w", what, err)
	}
	out := make([]int, len(cells))
	for i, c := range cells {
		out[i] = int(c)
	}
	return out, nil
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
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return 0, err
	}
	var quantity int
	err = q.db.QueryRow(ctx, queryUpsertStack, owner, assetID, int16(rarity), qty, now).Scan(&quantity)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, repository.ErrDuplicateStack
		}
		return 0, fmt.Errorf("failed to upsert inventory stack: %w", err)
	}
	return quantity, nil
}

func (q queries) ConsumeStack(ctx context.Context, ownerID string, assetID int64, qty int, now time.Time) (int, bool, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return 0, false, err
	}
	var quantity int
	err = q.db.QueryRow(ctx, queryConsumeStack, owner, assetID, qty, now).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to consume inventory stack: %w", err)
	}
	return quantity, true, nil
}

func (q queries) GetCreature(ctx context.Context, id int64) (*domain.SpawnedCreature, error) {
	c, err := scanCreature(q.db.QueryRow(ctx, queryGetCreature, id))
	if err != nil {
		return nil, notFound(err, "creature")
	}
	return c, nil
}

func (q queries) GetBalance(ctx context.Context, ownerID string) (*domain.OwnerBalance, error) {
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return nil, err
	}
	b, err := scanBalance(q.db.QueryRow(ctx, queryGetBalance, owner))
	if err != nil {
		return nil, notFound(err, "balance")
	}
	return b, nil
}

func (q queries) listConsumables(ctx context.Context, sql string, args ...any) ([]domain.PlacedConsumable, error) {
	rows, err := q.db.Query(ctx, sql, args...)
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
	owner, err := parseOwnerUUID(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := q.db.Query(ctx, queryListCreatures, owner, string(location))
	if err != nil {
		return nil, fmt.Errorf("failed to list creatures: %w", err)
	}
	out, err := collect(rows, scanCreature)
	if err != nil {
		return nil, fmt.Errorf("failed to scan creatures: %w", err)
	}
	return out, nil
}
