package repository

import (
	"context"
	"errors"
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
)

// ErrDuplicateStack is returned when an inventory insert loses a uniqueness race
var ErrDuplicateStack = errors.New("inventory stack already exists")

// CellReader lists the field cells held by each placed-object category.
// Both Store and Tx implement it, so occupancy can be read inside a transaction.
type CellReader interface {
	ConsumableCells(ctx context.Context, ownerID string) ([]int, error)
	FieldCreatureCells(ctx context.Context, ownerID string) ([]int, error)
	FixtureCells(ctx context.Context, ownerID string) ([]int, error)
}

// StackWriter holds the atomic inventory primitives
type StackWriter interface {
	// UpsertStack creates the stack with qty or adds qty to it in one statement and
	// returns the resulting quantity
	UpsertStack(ctx context.Context, ownerID string, assetID int64, rarity domain.Rarity, qty int, now time.Time) (int, error)
	// ConsumeStack subtracts qty if at least qty is held. False means nothing changed.
	ConsumeStack(ctx context.Context, ownerID string, assetID int64, qty int, now time.Time) (int, bool, error)
}

// Store defines the persistence operations of the economy
type Store interface {
	CellReader
	StackWriter

	BeginTx(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
	Close()

	// ListActiveConsumables returns consumables due to spawn: not exhausted,
	// next_spawn_at <= now < expires_at
	ListActiveConsumables(ctx context.Context, now time.Time) ([]domain.PlacedConsumable, error)
	ListConsumables(ctx context.Context, ownerID string) ([]domain.PlacedConsumable, error)

	GetCreature(ctx context.Context, id int64) (*domain.SpawnedCreature, error)
	ListExhibited(ctx context.Context, ownerID string) ([]domain.SpawnedCreature, error)
	ListFieldCreatures(ctx context.Context, ownerID string) ([]domain.SpawnedCreature, error)
	// MarkMatured sets matured_at once. False means it was already set.
	MarkMatured(ctx context.Context, creatureID int64, at time.Time) (bool, error)
	// DespawnExpired deletes wild creatures whose despawn_at <= now
	DespawnExpired(ctx context.Context, now time.Time) (int64, error)

	GetInventory(ctx context.Context, ownerID string) ([]domain.InventoryStack, error)
	GetBalance(ctx context.Context, ownerID string) (*domain.OwnerBalance, error)
	ListBalances(ctx context.Context) ([]domain.OwnerBalance, error)
	ListLedger(ctx context.Context, ownerID string, limit int) ([]domain.LedgerEntry, error)
}
