// Package despawn removes wild creatures nobody collected before their despawn time.
package despawn

import (
	"context"
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/logger"
)

const opDespawn = "despawn expired"

// Store is the part of repository.Store the sweep needs
type Store interface {
	DespawnExpired(ctx context.Context, now time.Time) (int64, error)
}

// Sweep implements scheduler.Sweep for the despawn pass
type Sweep struct {
	store Store
	bus   event.Bus
}

// NewSweep creates the despawn sweep
func NewSweep(store Store, bus event.Bus) *Sweep {
	return &Sweep{store: store, bus: bus}
}

// Name returns the sweep name
func (s *Sweep) Name() string {
	return domain.SweepDespawn
}

// Sweep deletes every field creature whose despawn time has passed, in one statement
func (s *Sweep) Sweep(ctx context.Context, now time.Time) (domain.SweepReport, error) {
	report := domain.SweepReport{StartedAt: now}

	n, err := s.store.DespawnExpired(ctx, now)
	if err != nil {
		report.Failed = 1
		return report, domain.NewTransientStoreError(opDespawn, err)
	}
	report.Scanned = int(n)
	report.Applied = int(n)
	if n == 0 {
		return report, nil
	}

	if err := s.bus.Publish(ctx, event.NewCreaturesDespawnedEvent(n, now)); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish despawn event", "error", err)
	}
	return report, nil
}
