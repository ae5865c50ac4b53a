// Package income pays owners for their exhibited creatures and runs the maturation
// countdown that makes them sellable.
package income

import (
	"context"
	"time"

	"github.com/osse101/Critterfield_Go/internal/decay"
	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/logger"
	"github.com/osse101/Critterfield_Go/internal/repository"
	"github.com/osse101/Critterfield_Go/internal/worker"
)

// Sweep implements scheduler.Sweep for income payouts and maturation
type Sweep struct {
	store       repository.Store
	valuator    *decay.Valuator
	bus         event.Bus
	parallelism int
}

// NewSweep creates the income/countdown sweep
func NewSweep(store repository.Store, valuator *decay.Valuator, bus event.Bus, parallelism int) *Sweep {
	return &Sweep{store: store, valuator: valuator, bus: bus, parallelism: parallelism}
}

// Name returns the sweep name
func (s *Sweep) Name() string {
	return domain.SweepIncome
}

// Sweep settles every owner that has a balance
func (s *Sweep) Sweep(ctx context.Context, now time.Time) (domain.SweepReport, error) {
	report := domain.SweepReport{StartedAt: now}

	balances, err := s.store.ListBalances(ctx)
	if err != nil {
		return report, domain.NewTransientStoreError(opListBalances, err)
	}
	report.Scanned = len(balances)

	res := worker.FanOut(ctx, balances, s.parallelism, func(ctx context.Context, b domain.OwnerBalance) (worker.Outcome, error) {
		return s.settle(ctx, b, now)
	})
	report.Applied, report.Skipped, report.Failed = res.Applied, res.Skipped, res.Failed
	return report, nil
}

// settle runs one owner's countdown and payout
func (s *Sweep) settle(ctx context.Context, b domain.OwnerBalance, now time.Time) (worker.Outcome, error) {
	log := logger.FromContext(ctx).With(logger.AttrKeyOwnerID, b.OwnerID)

	exhibited, err := s.store.ListExhibited(ctx, b.OwnerID)
	if err != nil {
		return worker.Skipped, domain.NewTransientStoreError(opListExhibited, err)
	}

	matured := s.countdown(ctx, exhibited, now)

	rate := s.valuator.HourlyRate(exhibited, now)
	credited, anchor := decay.Accrue(rate, b.LastPayoutAt, now)
	if !anchor.After(b.LastPayoutAt) {
		if matured > 0 {
			return worker.Applied, nil
		}
		return worker.Skipped, nil
	}

	paid, err := s.payout(ctx, b, anchor, credited)
	if err != nil {
		return worker.Skipped, err
	}
	if !paid {
		log.Warn(LogMsgPayoutCASLost)
		return worker.Skipped, nil
	}

	if credited > 0 {
		minutes := int64(anchor.Sub(b.LastPayoutAt) / time.Minute)
		if err := s.bus.Publish(ctx, event.NewIncomeCreditedEvent(b.OwnerID, credited, minutes, rate, now)); err != nil {
			log.Warn(LogMsgPublishFailed, "error", err)
		}
	}
	return worker.Applied, nil
}

// payout moves the anchor from the listed value and credits the balance in one transaction
func (s *Sweep) payout(ctx context.Context, b domain.OwnerBalance, anchor time.Time, credited int64) (bool, error) {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return false, domain.NewTransientStoreError(opBegin, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.LockOwner(ctx, b.OwnerID); err != nil {
		return false, domain.NewTransientStoreError(opLockOwner, err)
	}
	ok, err := tx.AdvancePayout(ctx, b.OwnerID, b.LastPayoutAt, anchor, credited)
	if err != nil {
		return false, domain.NewTransientStoreError(opAdvance, err)
	}
	if !ok {
		return false, nil
	}
	if credited > 0 {
		entry := &domain.LedgerEntry{
			OwnerID:    b.OwnerID,
			Amount:     credited,
			SourceType: domain.LedgerSourceIncome,
			Timestamp:  anchor,
		}
		if err := tx.InsertLedger(ctx, entry); err != nil {
			return false, domain.NewTransientStoreError(opLedger, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return false, domain.NewTransientStoreError(opCommit, err)
	}
	return true, nil
}

// countdown marks exhibited creatures whose countdown reached zero. It returns how
// many it marked; failures are logged and retried next cycle.
func (s *Sweep) countdown(ctx context.Context, exhibited []domain.SpawnedCreature, now time.Time) int {
	marked := 0
	for i := range exhibited {
		c := &exhibited[i]
		if c.MaturedAt != nil || s.valuator.Remaining(c, now) > 0 {
			continue
		}
		ok, err := s.store.MarkMatured(ctx, c.ID, now)
		if err != nil {
			logger.FromContext(ctx).Warn(LogMsgMatureFailed, "creature_id", c.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}
		marked++
		at := now
		c.MaturedAt = &at
		if err := s.bus.Publish(ctx, event.NewCreatureEvent(event.CreatureMatured, c, now)); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err)
		}
	}
	return marked
}
