package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/Critterfield_Go/internal/clock"
	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/decay"
	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/field"
	"github.com/osse101/Critterfield_Go/internal/inventory"
	"github.com/osse101/Critterfield_Go/internal/logger"
	"github.com/osse101/Critterfield_Go/internal/rarity"
	"github.com/osse101/Critterfield_Go/internal/repository"
	"github.com/osse101/Critterfield_Go/internal/spawn"
)

// Service is the economy surface used by the presentation layer
type Service interface {
	PlaceConsumable(ctx context.Context, ownerID string, fieldIndex int, consumableID int64) (*domain.PlacedConsumable, error)
	CollectCreature(ctx context.Context, ownerID string, fieldIndex int) (*domain.CollectResult, error)
	HarvestConsumable(ctx context.Context, ownerID string, fieldIndex int) (*domain.HarvestResult, error)
	ExhibitCreature(ctx context.Context, ownerID string, assetID int64, slot int) (*domain.SpawnedCreature, error)
	LikeCreature(ctx context.Context, likerID string, creatureID int64) (*domain.SellStatus, error)
	GetSellStatus(ctx context.Context, creatureID int64) (*domain.SellStatus, error)
	SellCreature(ctx context.Context, ownerID string, creatureID int64) (*domain.SaleResult, error)
	GetEconomySummary(ctx context.Context, ownerID string) (*domain.EconomySummary, error)
	GetInventory(ctx context.Context, ownerID string) ([]domain.InventoryStack, error)
	GetField(ctx context.Context, ownerID string) (*FieldView, error)
	GrantAsset(ctx context.Context, ownerID string, assetID int64, qty int) (*domain.InventoryStack, error)
	PlaceFixture(ctx context.Context, ownerID string, fieldIndex int, kind domain.FixtureKind) (*domain.FieldFixture, error)
	RemoveFixture(ctx context.Context, ownerID string, fieldIndex int) error
	TriggerSweep(ctx context.Context, name string) (domain.SweepReport, error)
}

// SweepTrigger runs a registered sweep on demand
type SweepTrigger interface {
	Trigger(ctx context.Context, name string) (domain.SweepReport, error)
}

// FieldView is everything currently placed on an owner's field
type FieldView struct {
	OwnerID     string                    `json:"owner_id"`
	Width       int                       `json:"width"`
	Height      int                       `json:"height"`
	Consumables []domain.PlacedConsumable `json:"consumables"`
	Creatures   []domain.SpawnedCreature  `json:"creatures"`
}

// Deps groups the collaborators of the engine
type Deps struct {
	Store    repository.Store
	Economy  *config.Economy
	Table    *rarity.Table
	Planner  *spawn.Planner
	Mutator  *inventory.Mutator
	Valuator *decay.Valuator
	Bus      event.Bus
	Clock    clock.Clock
	Sweeps   SweepTrigger

	LikeCacheSize int
	LikeCacheTTL  time.Duration
}

type service struct {
	store    repository.Store
	econ     *config.Economy
	table    *rarity.Table
	planner  *spawn.Planner
	mutator  *inventory.Mutator
	valuator *decay.Valuator
	grid     field.Grid
	bus      event.Bus
	clock    clock.Clock
	sweeps   SweepTrigger
	likes    *likeCache
}

// NewService creates the economy engine
func NewService(d Deps) Service {
	clk := d.Clock
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &service{
		store:    d.Store,
		econ:     d.Economy,
		table:    d.Table,
		planner:  d.Planner,
		mutator:  d.Mutator,
		valuator: d.Valuator,
		grid:     field.Grid{Width: d.Economy.Grid.Width, Height: d.Economy.Grid.Height},
		bus:      d.Bus,
		clock:    clk,
		sweeps:   d.Sweeps,
		likes:    newLikeCache(d.LikeCacheSize, d.LikeCacheTTL),
	}
}

// inOwnerTx runs fn inside a transaction holding ownerID's lock
func (s *service) inOwnerTx(ctx context.Context, ownerID string, fn func(tx repository.Tx) error) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to %s transaction: %w", opBegin, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockOwner(ctx, ownerID); err != nil {
		return fmt.Errorf("failed to %s: %w", opLock, err)
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to %s transaction: %w", opCommit, err)
	}
	return nil
}

func (s *service) publish(ctx context.Context, e event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "event_type", e.Type, "error", err)
	}
}

func (s *service) checkCell(fieldIndex int) error {
	if !s.grid.Contains(fieldIndex) {
		return domain.NewValidationError("field_index", domain.ErrMsgFieldOutOfBounds)
	}
	return nil
}

// PlaceConsumable consumes one seed from inventory and plants it on a free cell
func (s *service) PlaceConsumable(ctx context.Context, ownerID string, fieldIndex int, consumableID int64) (*domain.PlacedConsumable, error) {
	if err := check(placeRequest{OwnerID: ownerID, FieldIndex: fieldIndex, AssetID: consumableID}); err != nil {
		return nil, err
	}
	if err := s.checkCell(fieldIndex); err != nil {
		return nil, err
	}
	if s.table.Kind(consumableID) != domain.AssetKindSeed {
		return nil, domain.NewValidationError("asset_id", domain.ErrMsgNotASeed)
	}

	now := s.clock.Now()
	var placed *domain.PlacedConsumable
	err := s.inOwnerTx(ctx, ownerID, func(tx repository.Tx) error {
		free, err := field.NewOccupancy(tx).IsFree(ctx, ownerID, fieldIndex)
		if err != nil {
			return err
		}
		if !free {
			return domain.NewConflictError(domain.ReasonSlotOccupied, fmt.Sprintf("cell %d", fieldIndex))
		}
		if _, err := s.mutator.Consume(ctx, tx, ownerID, consumableID, 1, now); err != nil {
			return err
		}

		placed = s.planner.Plan(ownerID, fieldIndex, consumableID, now)
		id, err := tx.InsertConsumable(ctx, placed)
		if err != nil {
			return fmt.Errorf("failed to insert consumable: %w", err)
		}
		placed.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgConsumablePlaced,
		logger.AttrKeyOwnerID, ownerID, "consumable_id", placed.ID, "max_spawns", placed.MaxSpawns)
	s.publish(ctx, event.NewConsumablePlacedEvent(placed))
	return placed, nil
}

// CollectCreature moves the wild creature on fieldIndex into the owner's inventory
func (s *service) CollectCreature(ctx context.Context, ownerID string, fieldIndex int) (*domain.CollectResult, error) {
	if err := check(cellRequest{OwnerID: ownerID, FieldIndex: fieldIndex}); err != nil {
		return nil, err
	}
	if err := s.checkCell(fieldIndex); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var (
		creature *domain.SpawnedCreature
		result   *domain.CollectResult
	)
	err := s.inOwnerTx(ctx, ownerID, func(tx repository.Tx) error {
		var err error
		creature, err = tx.GetCreatureAt(ctx, ownerID, fieldIndex)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewConflictError(domain.ReasonNothingToCollect, fmt.Sprintf("cell %d", fieldIndex))
		}
		if err != nil {
			return fmt.Errorf("failed to get creature: %w", err)
		}
		// Past its despawn time but not swept yet
		if creature.DespawnAt != nil && !now.Before(*creature.DespawnAt) {
			return domain.NewConflictError(domain.ReasonNothingToCollect, "creature despawned")
		}

		deleted, err := tx.DeleteCreature(ctx, creature.ID)
		if err != nil {
			return fmt.Errorf("failed to delete creature: %w", err)
		}
		if !deleted {
			return domain.NewConflictError(domain.ReasonAlreadyCollected, fmt.Sprintf("creature %d", creature.ID))
		}

		stack, err := s.mutator.Acquire(ctx, tx, ownerID, creature.AssetID, 1, now)
		if err != nil {
			return err
		}
		result = &domain.CollectResult{
			CreatureID: creature.ID,
			AssetID:    creature.AssetID,
			Rarity:     stack.Rarity,
			Quantity:   stack.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgCreatureCollected,
		logger.AttrKeyOwnerID, ownerID, "creature_id", creature.ID, "asset_id", creature.AssetID)
	s.publish(ctx, event.NewCreatureEvent(event.CreatureCollected, creature, now))
	return result, nil
}

// HarvestConsumable removes an expired or exhausted consumable and returns one seed
func (s *service) HarvestConsumable(ctx context.Context, ownerID string, fieldIndex int) (*domain.HarvestResult, error) {
	if err := check(cellRequest{OwnerID: ownerID, FieldIndex: fieldIndex}); err != nil {
		return nil, err
	}
	if err := s.checkCell(fieldIndex); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var result *domain.HarvestResult
	err := s.inOwnerTx(ctx, ownerID, func(tx repository.Tx) error {
		c, err := tx.GetConsumableAt(ctx, ownerID, fieldIndex)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewConflictError(domain.ReasonNothingToCollect, fmt.Sprintf("cell %d", fieldIndex))
		}
		if err != nil {
			return fmt.Errorf("failed to get consumable: %w", err)
		}

		result, err = s.planner.Harvest(c, now)
		if err != nil {
			return err
		}
		deleted, err := tx.DeleteConsumable(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to delete consumable: %w", err)
		}
		if !deleted {
			return domain.NewConflictError(domain.ReasonAlreadyCollected, fmt.Sprintf("consumable %d", c.ID))
		}
		_, err = s.mutator.Acquire(ctx, tx, ownerID, result.RewardAssetID, result.RewardQuantity, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgHarvested, logger.AttrKeyOwnerID, ownerID,
		"consumable_id", result.ConsumableID, "reward_asset_id", result.RewardAssetID)
	s.publish(ctx, event.NewConsumableHarvestedEvent(ownerID, *result, now))
	return result, nil
}

// ExhibitCreature puts one creature from inventory on display in slot.
// The countdown starts now and income accrues from the next income sweep.
func (s *service) ExhibitCreature(ctx context.Context, ownerID string, assetID int64, slot int) (*domain.SpawnedCreature, error) {
	if err := check(exhibitRequest{OwnerID: ownerID, AssetID: assetID, Slot: slot}); err != nil {
		return nil, err
	}
	if slot >= s.econ.ExhibitSlots {
		return nil, domain.NewValidationError("slot", domain.ErrMsgSlotOutOfBounds)
	}
	if s.table.Kind(assetID) != domain.AssetKindCreature {
		return nil, domain.NewValidationError("asset_id", domain.ErrMsgNotACreature)
	}

	now := s.clock.Now()
	creature := &domain.SpawnedCreature{
		OwnerID:  ownerID,
		Location: domain.LocationExhibit,
		Slot:     slot,
		Rarity:   s.table.Classify(assetID).Rarity,
		AssetID:  assetID,
		PlacedAt: now,
	}
	err := s.inOwnerTx(ctx, ownerID, func(tx repository.Tx) error {
		taken, err := tx.ExhibitSlotTaken(ctx, ownerID, slot)
		if err != nil {
			return fmt.Errorf("failed to check exhibit slot: %w", err)
		}
		if taken {
			return domain.NewConflictError(domain.ReasonSlotOccupied, fmt.Sprintf("exhibit slot %d", slot))
		}
		if _, err := s.mutator.Consume(ctx, tx, ownerID, assetID, 1, now); err != nil {
			return err
		}
		// The first exhibit anchors income at now
		if err := tx.EnsureBalance(ctx, ownerID, now); err != nil {
			return fmt.Errorf("failed to ensure balance: %w", err)
		}
		id, err := tx.InsertCreature(ctx, creature)
		if err != nil {
			return fmt.Errorf("failed to insert exhibit: %w", err)
		}
		creature.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgCreatureExhibited,
		logger.AttrKeyOwnerID, ownerID, "creature_id", creature.ID, "slot", slot)
	s.publish(ctx, event.NewCreatureEvent(event.CreatureExhibited, creature, now))
	return creature, nil
}

// LikeCreature applies the like discount to another owner's exhibited creature.
// Each liker counts once per creature.
func (s *service) LikeCreature(ctx context.Context, likerID string, creatureID int64) (*domain.SellStatus, error) {
	if err := check(likeRequest{LikerID: likerID, CreatureID: creatureID}); err != nil {
		return nil, err
	}
	if s.likes.Seen(creatureID, likerID) {
		return nil, domain.NewConflictError(domain.ReasonAlreadyLiked, fmt.Sprintf("creature %d", creatureID))
	}

	// Read outside the tx to learn which owner to lock
	c, err := s.store.GetCreature(ctx, creatureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creature %d: %w", creatureID, err)
	}
	if c.OwnerID == likerID {
		return nil, domain.NewValidationError("liker_id", domain.ErrMsgSelfLike)
	}

	now := s.clock.Now()
	var status domain.SellStatus
	err = s.inOwnerTx(ctx, c.OwnerID, func(tx repository.Tx) error {
		current, err := tx.GetCreature(ctx, creatureID)
		if err != nil {
			return fmt.Errorf("failed to get creature %d: %w", creatureID, err)
		}
		if current.Location != domain.LocationExhibit {
			return domain.NewValidationError("creature_id", domain.ErrMsgCreatureNotOnShow)
		}
		inserted, err := tx.InsertLike(ctx, creatureID, likerID, now)
		if err != nil {
			return fmt.Errorf("failed to record like: %w", err)
		}
		if !inserted {
			s.likes.Remember(creatureID, likerID)
			return domain.NewConflictError(domain.ReasonAlreadyLiked, fmt.Sprintf("creature %d", creatureID))
		}
		total, err := tx.AddDiscount(ctx, creatureID, s.econ.LikeDiscount())
		if err != nil {
			return fmt.Errorf("failed to add discount: %w", err)
		}
		current.Discount = total
		status = s.valuator.SellStatus(current, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.likes.Remember(creatureID, likerID)
	s.publish(ctx, event.NewCreatureLikedEvent(creatureID, likerID, s.econ.LikeDiscount(), now))
	return &status, nil
}

// GetSellStatus reports whether a creature has matured and how long is left
func (s *service) GetSellStatus(ctx context.Context, creatureID int64) (*domain.SellStatus, error) {
	if creatureID <= 0 {
		return nil, domain.NewValidationError("creature_id", "must be greater than 0")
	}
	c, err := s.store.GetCreature(ctx, creatureID)
	if err != nil {
		return nil, fmt.Errorf("failed to get creature %d: %w", creatureID, err)
	}
	status := s.valuator.SellStatus(c, s.clock.Now())
	return &status, nil
}

// SellCreature sells a matured exhibited creature for its tier's sell value
func (s *service) SellCreature(ctx context.Context, ownerID string, creatureID int64) (*domain.SaleResult, error) {
	if err := check(sellRequest{OwnerID: ownerID, CreatureID: creatureID}); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var result *domain.SaleResult
	err := s.inOwnerTx(ctx, ownerID, func(tx repository.Tx) error {
		c, err := tx.GetCreature(ctx, creatureID)
		if err != nil {
			return fmt.Errorf("failed to get creature %d: %w", creatureID, err)
		}
		if c.OwnerID != ownerID {
			return domain.NewValidationError("creature_id", domain.ErrMsgNotOwner)
		}
		if c.Location != domain.LocationExhibit {
			return domain.NewConflictError(domain.ReasonNotSellable, domain.ErrMsgCreatureNotOnShow)
		}
		status := s.valuator.SellStatus(c, now)
		if !status.CanSell {
			return domain.NewConflictError(domain.ReasonNotSellable, fmt.Sprintf("%s remaining", status.Remaining))
		}

		deleted, err := tx.DeleteCreature(ctx, c.ID)
		if err != nil {
			return fmt.Errorf("failed to delete creature: %w", err)
		}
		if !deleted {
			return domain.NewConflictError(domain.ReasonAlreadyCollected, fmt.Sprintf("creature %d", c.ID))
		}
		if err := tx.EnsureBalance(ctx, ownerID, now); err != nil {
			return fmt.Errorf("failed to ensure balance: %w", err)
		}
		amount := s.valuator.SellValue(c)
		balance, err := tx.CreditBalance(ctx, ownerID, amount)
		if err != nil {
			return fmt.Errorf("failed to credit balance: %w", err)
		}
		if err := tx.InsertLedger(ctx, &domain.LedgerEntry{
			OwnerID:    ownerID,
			Amount:     amount,
			SourceType: domain.LedgerSourceSale,
			Timestamp:  now,
		}); err != nil {
			return fmt.Errorf("failed to record sale: %w", err)
		}
		result = &domain.SaleResult{CreatureID: c.ID, Amount: amount, Balance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.likes.Forget(creatureID)
	logger.FromContext(ctx).Info(LogMsgCreatureSold,
		logger.AttrKeyOwnerID, ownerID, "creature_id", creatureID, "amount", result.Amount)
	s.publish(ctx, event.NewCreatureSoldEvent(ownerID, creatureID, result.Amount, now))
	return result, nil
}

// GetEconomySummary reports the owner's current hourly rate and balance
func (s *service) GetEconomySummary(ctx context.Context, ownerID string) (*domain.EconomySummary, error) {
	if err := check(ownerRequest{OwnerID: ownerID}); err != nil {
		return nil, err
	}
	exhibited, err := s.store.ListExhibited(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exhibited creatures: %w", err)
	}
	summary := &domain.EconomySummary{
		OwnerID:    ownerID,
		HourlyRate: s.valuator.HourlyRate(exhibited, s.clock.Now()),
		Exhibited:  len(exhibited),
	}

	balance, err := s.store.GetBalance(ctx, ownerID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to get balance: %w", err)
	default:
		summary.Balance = balance.Balance
	}
	return summary, nil
}

// GetInventory lists the owner's non-empty stacks
func (s *service) GetInventory(ctx context.Context, ownerID string) ([]domain.InventoryStack, error) {
	if err := check(ownerRequest{OwnerID: ownerID}); err != nil {
		return nil, err
	}
	stacks, err := s.store.GetInventory(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	return stacks, nil
}

// GetField lists the consumables and wild creatures on the owner's field
func (s *service) GetField(ctx context.Context, ownerID string) (*FieldView, error) {
	if err := check(ownerRequest{OwnerID: ownerID}); err != nil {
		return nil, err
	}
	consumables, err := s.store.ListConsumables(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consumables: %w", err)
	}
	creatures, err := s.store.ListFieldCreatures(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list field creatures: %w", err)
	}
	return &FieldView{
		OwnerID:     ownerID,
		Width:       s.grid.Width,
		Height:      s.grid.Height,
		Consumables: consumables,
		Creatures:   creatures,
	}, nil
}

// GrantAsset adds qty of any asset to the owner's inventory
func (s *service) GrantAsset(ctx context.Context, ownerID string, assetID int64, qty int) (*domain.InventoryStack, error) {
	if err := check(grantRequest{OwnerID: ownerID, AssetID: assetID, Quantity: qty}); err != nil {
		return nil, err
	}
	stack, err := s.mutator.Acquire(ctx, s.store, ownerID, assetID, qty, s.clock.Now())
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info(LogMsgAssetGranted,
		logger.AttrKeyOwnerID, ownerID, "asset_id", assetID, "quantity", qty)
	return stack, nil
}

// PlaceFixture puts a plant or decoration on a free cell
func (s *service) PlaceFixture(ctx context.Context, ownerID string, fieldIndex int, kind domain.FixtureKind) (*domain.FieldFixture, error) {
	if err := check(fixtureRequest{OwnerID: ownerID, FieldIndex: fieldIndex, Kind: string(kind)}); err != nil {
		return nil, err
	}
	if err := s.checkCell(fieldIndex); err != nil {
		return nil, err
	}

	fixture := &domain.FieldFixture{OwnerID: ownerID, FieldIndex: fieldIndex, Kind: kind, PlacedAt: s.clock.Now()}
	err := s.inOwnerTx(ctx, ownerID, func(tx repository.Tx) error {
		free, err := field.NewOccupancy(tx).IsFree(ctx, ownerID, fieldIndex)
		if err != nil {
			return err
		}
		if !free {
			return domain.NewConflictError(domain.ReasonSlotOccupied, fmt.Sprintf("cell %d", fieldIndex))
		}
		id, err := tx.InsertFixture(ctx, fixture)
		if err != nil {
			return fmt.Errorf("failed to insert fixture: %w", err)
		}
		fixture.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fixture, nil
}

// RemoveFixture clears the fixture on fieldIndex
func (s *service) RemoveFixture(ctx context.Context, ownerID string, fieldIndex int) error {
	if err := check(cellRequest{OwnerID: ownerID, FieldIndex: fieldIndex}); err != nil {
		return err
	}
	if err := s.checkCell(fieldIndex); err != nil {
		return err
	}
	return s.inOwnerTx(ctx, ownerID, func(tx repository.Tx) error {
		deleted, err := tx.DeleteFixtureAt(ctx, ownerID, fieldIndex)
		if err != nil {
			return fmt.Errorf("failed to delete fixture: %w", err)
		}
		if !deleted {
			return fmt.Errorf("fixture at cell %d: %w", fieldIndex, domain.ErrNotFound)
		}
		return nil
	})
}

// TriggerSweep runs one sweep immediately
func (s *service) TriggerSweep(ctx context.Context, name string) (domain.SweepReport, error) {
	if s.sweeps == nil {
		return domain.SweepReport{}, fmt.Errorf("%w: %s", domain.ErrUnknownSweep, name)
	}
	return s.sweeps.Trigger(ctx, name)
}
