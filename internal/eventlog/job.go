package eventlog

import (
	"context"
	"time"

	"github.com/osse101/Critterfield_Go/internal/domain"
	"github.com/osse101/Critterfield_Go/internal/logger"
)

// CleanupJob prunes old audit segments. It runs as a scheduler sweep.
type CleanupJob struct {
	service       Service
	retentionDays int
}

// NewCleanupJob creates a new cleanup job
func NewCleanupJob(service Service, retentionDays int) *CleanupJob {
	return &CleanupJob{
		service:       service,
		retentionDays: retentionDays,
	}
}

// Name implements scheduler.Sweep
func (j *CleanupJob) Name() string {
	return domain.SweepAuditCleanup
}

// Sweep executes the cleanup job
func (j *CleanupJob) Sweep(ctx context.Context, now time.Time) (domain.SweepReport, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCleanupJobStarting, LogFieldRetentionDays, j.retentionDays)

	report := domain.SweepReport{Sweep: j.Name(), StartedAt: now}
	start := time.Now()
	count, err := j.service.CleanupOldEvents(ctx, j.retentionDays)
	report.Duration = time.Since(start)
	report.Applied = int(count)

	if err != nil {
		log.Error(LogMsgCleanupJobFailed, LogFieldError, err, LogFieldDuration, report.Duration)
		return report, err
	}

	log.Info(LogMsgCleanupJobCompleted, LogFieldDeletedCount, count, LogFieldDuration, report.Duration)
	return report, nil
}
