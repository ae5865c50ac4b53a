package metrics

import (
	"context"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/logger"
)

// ObserveSweep records one sweep run. Its signature matches scheduler.Observer.
func ObserveSweep(ctx context.Context, report domain.SweepReport, trigger string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		logger.FromContext(ctx).Warn(LogMsgSweepFailed, "sweep", report.Sweep, "trigger", trigger, "error", err)
	}
	SweepRuns.WithLabelValues(report.Sweep, trigger, outcome).Inc()
	SweepDuration.WithLabelValues(report.Sweep).Observe(report.Duration.Seconds())
	SweepUnits.WithLabelValues(report.Sweep, ResultScanned).Add(float64(report.Scanned))
	SweepUnits.WithLabelValues(report.Sweep, ResultApplied).Add(float64(report.Applied))
	SweepUnits.WithLabelValues(report.Sweep, ResultSkipped).Add(float64(report.Skipped))
	SweepUnits.WithLabelValues(report.Sweep, ResultFailed).Add(float64(report.Failed))
	if !report.StartedAt.IsZero() {
		SweepLastRun.WithLabelValues(report.Sweep).Set(float64(report.StartedAt.Add(report.Duration).Unix()))
	}
}
