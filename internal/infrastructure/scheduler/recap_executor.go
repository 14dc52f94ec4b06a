package scheduler

import (
	"context"
	"time"

	"github.com/ideation/backend/internal/application/notification"
	"github.com/ideation/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// JobKindRecapDigest is the kind of the daily recap digest job
const JobKindRecapDigest = "recap_digest"

// RecapRunner runs one recap digest pass
type RecapRunner interface {
	Run(ctx context.Context, now time.Time) (*notification.RecapReport, error)
}

// RecapExecutor runs the recap digest for a job. The digest marks
// notifications sent at most once, so it is never retried.
type RecapExecutor struct {
	runner RecapRunner
}

// NewRecapExecutor creates a new recap executor
func NewRecapExecutor(runner RecapRunner) *RecapExecutor {
	return &RecapExecutor{runner: runner}
}

// Execute runs the digest as of the job's scheduled time
func (e *RecapExecutor) Execute(ctx context.Context, job *Job) error {
	now := job.ScheduledFor
	if now.IsZero() {
		now = time.Now()
	}
	report, err := e.runner.Run(ctx, now)
	if err != nil {
		return err
	}
	logger.L(ctx).Info("Recap digest finished",
		zap.Int("recipients", report.Recipients),
		zap.Int("emails_sent", report.EmailsSent),
		zap.Int("emails_failed", report.EmailsFailed),
		zap.Int("skipped", report.Skipped),
		zap.Int("malformed", report.Malformed),
		zap.Int("notifications_marked", report.NotificationsMarked),
	)
	return nil
}

// Retryable is always false
func (e *RecapExecutor) Retryable() bool {
	return false
}

var _ Executor = (*RecapExecutor)(nil)
