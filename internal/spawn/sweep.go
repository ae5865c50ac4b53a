// Package spawn runs the periodic evaluation that turns placed consumables into
// wild creatures on neighbouring field cells.
package spawn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/field"
	"github.com/osse101/Critterfield_Go/internal/logger"
	"github.com/osse101/Critterfield_Go/internal/repository"
	"github.com/osse101/Critterfield_Go/internal/worker"
)

// Sweep implements scheduler.Sweep for consumable spawns
type Sweep struct {
	store       repository.Store
	planner     *Planner
	resolver    *field.Resolver
	bus         event.Bus
	parallelism int
}

// NewSweep creates the spawn sweep
func NewSweep(store repository.Store, planner *Planner, resolver *field.Resolver, bus event.Bus, parallelism int) *Sweep {
	return &Sweep{
		store:       store,
		planner:     planner,
		resolver:    resolver,
		bus:         bus,
		parallelism: parallelism,
	}
}

// Name returns the sweep name
func (s *Sweep) Name() string {
	return domain.SweepSpawn
}

// Sweep evaluates every consumable due at now. Each consumable is an independent unit;
// a failing unit is counted and retried next cycle.
func (s *Sweep) Sweep(ctx context.Context, now time.Time) (domain.SweepReport, error) {
	report := domain.SweepReport{StartedAt: now}

	due, err := s.store.ListActiveConsumables(ctx, now)
	if err != nil {
		return report, domain.NewTransientStoreError(opListActive, err)
	}
	report.Scanned = len(due)

	res := worker.FanOut(ctx, due, s.parallelism, func(ctx context.Context, c domain.PlacedConsumable) (worker.Outcome, error) {
		return s.spawnOne(ctx, c.ID, now)
	})
	report.Applied, report.Skipped, report.Failed = res.Applied, res.Skipped, res.Failed
	return report, nil
}

// spawnOne runs one consumable's evaluation in a transaction holding the owner's lock
func (s *Sweep) spawnOne(ctx context.Context, consumableID int64, now time.Time) (worker.Outcome, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return worker.Skipped, domain.NewTransientStoreError(opBegin, err)
	}
	defer repository.SafeRollback(ctx, tx)

	c, err := tx.GetConsumable(ctx, consumableID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// harvested since the listing
			return worker.Skipped, nil
		}
		return worker.Skipped, domain.NewTransientStoreError(opGetConsumable, err)
	}
	if err := tx.LockOwner(ctx, c.OwnerID); err != nil {
		return worker.Skipped, domain.NewTransientStoreError(opLockOwner, err)
	}
	// Re-read under the lock
	if c, err = tx.GetConsumable(ctx, consumableID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return worker.Skipped, nil
		}
		return worker.Skipped, domain.NewTransientStoreError(opGetConsumable, err)
	}

	log := logger.FromContext(ctx).With("consumable_id", c.ID, logger.AttrKeyOwnerID, c.OwnerID)

	if now.Before(c.NextSpawnAt) || c.IsExpired(now) || c.Exhausted {
		return worker.Skipped, nil
	}
	if c.SpawnCount >= c.MaxSpawns {
		if c.SpawnCount > c.MaxSpawns {
			violation := &domain.InvariantViolation{
				Entity: "consumable",
				ID:     c.ID,
				Detail: fmt.Sprintf("spawn_count %d > max_spawns %d", c.SpawnCount, c.MaxSpawns),
			}
			log.Error(LogMsgInvariantRepaired, "error", violation)
		}
		if err := tx.ForceExhaust(ctx, c.ID); err != nil {
			return worker.Skipped, domain.NewTransientStoreError(opForceExhaust, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return worker.Skipped, domain.NewTransientStoreError(opCommit, err)
		}
		return worker.Skipped, nil
	}

	cell, ok, err := s.resolver.Using(tx).PickSpawnCell(ctx, c.OwnerID, c.FieldIndex)
	if err != nil {
		return worker.Skipped, domain.NewTransientStoreError(opPickCell, err)
	}
	if !ok {
		log.Debug(LogMsgNoFreeCell, "field_index", c.FieldIndex)
		return worker.Skipped, nil
	}

	creature := s.planner.Creature(c, cell, now)
	if creature.ID, err = tx.InsertCreature(ctx, creature); err != nil {
		return worker.Skipped, domain.NewTransientStoreError(opInsertCreature, err)
	}

	advanced, err := tx.AdvanceSpawn(ctx, c.ID, c.SpawnCount, now.Add(s.planner.NextDelay()))
	if err != nil {
		return worker.Skipped, domain.NewTransientStoreError(opAdvanceSpawn, err)
	}
	if !advanced {
		log.Warn(LogMsgSpawnCASLost, "expected_count", c.SpawnCount)
		return worker.Skipped, nil
	}

	if err := tx.Commit(ctx); err != nil {
		return worker.Skipped, domain.NewTransientStoreError(opCommit, err)
	}

	if err := s.bus.Publish(ctx, event.NewCreatureEvent(event.CreatureSpawned, creature, now)); err != nil {
		log.Warn(LogMsgPublishFailed, "error", err)
	}
	return worker.Applied, nil
}
