package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/osse101/Critterfield_Go/internal/clock"
	"github.com/osse101/Critterfield_Go/internal/config"
	"github.com/osse101/Critterfield_Go/internal/decay"
	"github.com/osse101/Critterfield_Go/internal/despawn"
	"github.com/osse101/Critterfield_Go/internal/engine"
	"github.com/osse101/Critterfield_Go/internal/event"
	"github.com/osse101/Critterfield_Go/internal/eventlog"
	"github.com/osse101/Critterfield_Go/internal/field"
	"github.com/osse101/Critterfield_Go/internal/income"
	"github.com/osse101/Critterfield_Go/internal/inventory"
	"github.com/osse101/Critterfield_Go/internal/metrics"
	"github.com/osse101/Critterfield_Go/internal/rarity"
	"github.com/osse101/Critterfield_Go/internal/repository"
	"github.com/osse101/Critterfield_Go/internal/scheduler"
	"github.com/osse101/Critterfield_Go/internal/spawn"
	"github.com/osse101/Critterfield_Go/internal/utils"
)

// EconomyDependencies are the pieces the economy is assembled from
type EconomyDependencies struct {
	Config   *config.Config
	Economy  *config.Economy
	Table    *rarity.Table
	Rand     *utils.Rand
	Store    repository.Store
	Bus      event.Bus
	Clock    clock.Clock
	EventLog eventlog.Service
}

// Economy is the assembled engine and the scheduler driving its sweeps
type Economy struct {
	Engine    engine.Service
	Scheduler *scheduler.Scheduler
}

type registration struct {
	sweep    scheduler.Sweep
	interval time.Duration
}

// BuildEconomy wires the engine and registers every periodic sweep. The scheduler
// is returned stopped; the caller starts it.
func BuildEconomy(deps EconomyDependencies) (*Economy, error) {
	econ := deps.Economy
	grid := field.Grid{Width: econ.Grid.Width, Height: econ.Grid.Height}

	planner := spawn.NewPlanner(econ, deps.Table, deps.Rand)
	valuator := decay.NewValuator(deps.Table, econ.DecayWindow())
	resolver := field.NewResolver(grid, deps.Store, deps.Rand)

	sched := scheduler.New(deps.Clock, metrics.ObserveSweep)

	registrations := []registration{
		{spawn.NewSweep(deps.Store, planner, resolver, deps.Bus, econ.SweepParallelism), econ.SpawnInterval()},
		{income.NewSweep(deps.Store, valuator, deps.Bus, econ.SweepParallelism), econ.IncomeInterval()},
		{despawn.NewSweep(deps.Store, deps.Bus), econ.DespawnInterval()},
	}
	if deps.EventLog != nil {
		registrations = append(registrations,
			registration{eventlog.NewCleanupJob(deps.EventLog, deps.Config.AuditRetentionDays), AuditCleanupInterval})
	}
	for _, r := range registrations {
		if err := sched.Register(r.sweep, r.interval); err != nil {
			return nil, fmt.Errorf("%s %s: %w", ErrMsgFailedRegisterSweep, r.sweep.Name(), err)
		}
	}
	slog.Info(LogMsgSweepsRegistered, "sweeps", sched.Names())

	svc := engine.NewService(engine.Deps{
		Store:         deps.Store,
		Economy:       econ,
		Table:         deps.Table,
		Planner:       planner,
		Mutator:       inventory.NewMutator(deps.Table),
		Valuator:      valuator,
		Bus:           deps.Bus,
		Clock:         deps.Clock,
		Sweeps:        sched,
		LikeCacheSize: deps.Config.LikeCacheSize,
		LikeCacheTTL:  deps.Config.LikeCacheTTL,
	})

	return &Economy{Engine: svc, Scheduler: sched}, nil
}
