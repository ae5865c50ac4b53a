package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/Critterfield_Go/internal/logger"
)

// Outcome is what one unit of work did
type Outcome int

const (
	// Applied means the unit changed state
	Applied Outcome = iota
	// Skipped means the unit had nothing to do this round
	Skipped
)

// Result counts the outcomes of a fan-out
type Result struct {
	Applied int
	Skipped int
	Failed  int
}

// Job processes one item of a fan-out
type Job[T any] func(ctx context.Context, item T) (Outcome, error)

// FanOut runs job over items with at most limit in flight. A failing or panicking
// item is logged and counted; it never cancels its siblings. FanOut stops starting
// new items once ctx is done.
func FanOut[T any](ctx context.Context, items []T, limit int, job Job[T]) Result {
	if limit <= 0 {
		limit = DefaultParallelism
	}

	var applied, skipped, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(limit)

	for i := range items {
		if ctx.Err() != nil {
			break
		}
		item := items[i]
		g.Go(func() error {
			outcome, err := runJob(ctx, job, item)
			switch {
			case err != nil:
				failed.Add(1)
				logger.FromContext(ctx).Warn(LogMsgWorkerJobFailed, "error", err)
			case outcome == Skipped:
				skipped.Add(1)
			default:
				applied.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	return Result{
		Applied: int(applied.Load()),
		Skipped: int(skipped.Load()),
		Failed:  int(failed.Load()),
	}
}

func runJob[T any](ctx context.Context, job Job[T], item T) (outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error(LogMsgWorkerJobPanicked, "panic", r)
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job(ctx, item)
}
