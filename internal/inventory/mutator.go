package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/logger"
	"github.com/osse101/Critterfield_Go/internal/rarity"
	"github.com/osse101/Critterfield_Go/internal/repository"
)

// Mutator is the only path that changes inventory quantities
type Mutator struct {
	table *rarity.Table
}

// NewMutator creates a Mutator that stamps stacks with the table's rarity
func NewMutator(table *rarity.Table) *Mutator {
	return &Mutator{table: table}
}

// Acquire adds qty of assetID to the owner's stack, creating it on first acquisition.
// The rarity column always comes from Classify so it cannot drift from the id.
func (m *Mutator) Acquire(ctx context.Context, w repository.StackWriter, ownerID string, assetID int64, qty int, now time.Time) (*domain.InventoryStack, error) {
	if qty <= 0 {
		return nil, domain.NewValidationError("quantity", domain.ErrMsgInvalidQuantity)
	}
	tier := m.table.Classify(assetID)

	total, err := w.UpsertStack(ctx, ownerID, assetID, tier.Rarity, qty, now)
	if errors.Is(err, repository.ErrDuplicateStack) {
		// Lost a first-insert race; the winner's row exists now
		logger.FromContext(ctx).Debug("Retrying inventory upsert after duplicate", "owner_id", ownerID, "asset_id", assetID)
		total, err = w.UpsertStack(ctx, ownerID, assetID, tier.Rarity, qty, now)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire asset %d: %w", assetID, err)
	}

	return &domain.InventoryStack{
		OwnerID:   ownerID,
		AssetID:   assetID,
		Rarity:    tier.Rarity,
		Quantity:  total,
		UpdatedAt: now,
	}, nil
}

// Consume removes qty of assetID. Holding less than qty is a ConflictError and
// changes nothing; a stack that reaches zero stays as a hidden zero row.
func (m *Mutator) Consume(ctx context.Context, w repository.StackWriter, ownerID string, assetID int64, qty int, now time.Time) (int, error) {
	if qty <= 0 {
		return 0, domain.NewValidationError("quantity", domain.ErrMsgInvalidQuantity)
	}
	remaining, ok, err := w.ConsumeStack(ctx, ownerID, assetID, qty, now)
	if err != nil {
		return 0, fmt.Errorf("failed to consume asset %d: %w", assetID, err)
	}
	if !ok {
		return 0, domain.NewConflictError(domain.ReasonInsufficientInventory, fmt.Sprintf("asset %d", assetID))
	}
	return remaining, nil
}
