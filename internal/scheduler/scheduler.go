package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/Critterfield_Go/internal/clock"
	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/logger"
)

// Sweep is one periodic evaluation over all eligible entities
type Sweep interface {
	Name() string
	Sweep(ctx context.Context, now time.Time) (domain.SweepReport, error)
}

// Observer is notified after every sweep run, ticked or manual
type Observer func(ctx context.Context, report domain.SweepReport, trigger string, err error)

type entry struct {
	sweep    Sweep
	interval time.Duration
	mu       sync.Mutex // one run of this sweep at a time
}

// Scheduler runs each registered sweep on its own ticker. Sweeps never wait on each
// other; a manual trigger and a tick of the same sweep are serialised.
type Scheduler struct {
	clock     clock.Clock
	observers []Observer

	mu      sync.Mutex
	entries map[string]*entry
	started bool
	stopped bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

// New creates a scheduler ticking on c
func New(c clock.Clock, observers ...Observer) *Scheduler {
	return &Scheduler{
		clock:     c,
		observers: observers,
		entries:   make(map[string]*entry),
		quit:      make(chan struct{}),
	}
}

// Register adds a sweep that runs every interval once the scheduler starts
func (s *Scheduler) Register(sweep Sweep, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sweep %s: interval must be positive", sweep.Name())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("sweep %s: scheduler already started", sweep.Name())
	}
	if _, dup := s.entries[sweep.Name()]; dup {
		return fmt.Errorf("sweep %s: already registered", sweep.Name())
	}
	s.entries[sweep.Name()] = &entry{sweep: sweep, interval: interval}
	return nil
}

// Names lists the registered sweeps
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start launches one loop per sweep. Values of ctx are kept for sweep runs but its
// cancellation is not: Stop is the only way to end the loops.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	runCtx := context.WithoutCancel(ctx)
	for _, e := range s.entries {
		ticker := s.clock.NewTicker(e.interval)
		s.wg.Add(1)
		go s.loop(runCtx, e, ticker)
	}
	logger.FromContext(ctx).Info(LogMsgSchedulerStarted, "sweeps", len(s.entries))
}

func (s *Scheduler) loop(ctx context.Context, e *entry, ticker clock.Ticker) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case <-ticker.C():
			// A tick racing with Stop loses
			select {
			case <-s.quit:
				return
			default:
			}
			_, _ = s.run(ctx, e, TriggerTick)
		}
	}
}

// Trigger runs a sweep immediately and returns its report
func (s *Scheduler) Trigger(ctx context.Context, name string) (domain.SweepReport, error) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return domain.SweepReport{}, domain.ErrSchedulerStopped
	}
	e, ok := s.entries[name]
	if !ok {
		s.mu.Unlock()
		return domain.SweepReport{}, fmt.Errorf("%w: %s", domain.ErrUnknownSweep, name)
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	return s.run(ctx, e, TriggerManual)
}

func (s *Scheduler) run(ctx context.Context, e *entry, trigger string) (domain.SweepReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = logger.WithRequestID(ctx, logger.GenerateRequestID())
	log := logger.FromContext(ctx).With(logger.AttrKeySweep, e.sweep.Name(), "trigger", trigger)

	now := s.clock.Now()
	start := time.Now()
	report, err := e.sweep.Sweep(ctx, now)
	report.Sweep = e.sweep.Name()
	if report.StartedAt.IsZero() {
		report.StartedAt = now
	}
	if report.Duration == 0 {
		report.Duration = time.Since(start)
	}

	if err != nil {
		log.Error(LogMsgSweepFailed, "error", err)
	} else {
		log.Debug(LogMsgSweepCompleted,
			"scanned", report.Scanned,
			"applied", report.Applied,
			"skipped", report.Skipped,
			"failed", report.Failed,
			"duration", report.Duration)
	}

	for _, obs := range s.observers {
		obs(ctx, report, trigger, err)
	}
	return report, err
}

// Stop ends every loop and waits for in-flight runs, ticked or manual, to finish.
// It returns ctx.Err() if they do not finish before ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	close(s.quit)
	s.mu.Unlock()

	log.Info(LogMsgSchedulerStopping)

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgSchedulerStopped)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
