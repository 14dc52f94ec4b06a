// Package scheduler runs background jobs on a fixed worker pool. Jobs are
// submitted by kind, either by a DailyTrigger or on demand.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/infrastructure/config"
	"github.com/ideation/backend/internal/infrastructure/logger"
	"github.com/ideation/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

const queueSize = 100

// Job is one run of an executor
type Job struct {
	ID           uuid.UUID
	Kind         string
	ScheduledFor time.Time
	Status       JobStatus
	Error        string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	RetryCount   int
	MaxRetries   int
	NextRetryAt  *time.Time
}

// NewJob creates a pending job
func NewJob(kind string, scheduledFor time.Time, maxRetries int) *Job {
	return &Job{
		ID:           uuid.New(),
		Kind:         kind,
		ScheduledFor: scheduledFor,
		Status:       JobStatusPending,
		MaxRetries:   maxRetries,
	}
}

func (j *Job) start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

func (j *Job) complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

func (j *Job) fail(err error) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err.Error()
}

// ShouldRetry returns true if the job failed and has retries left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

func (j *Job) scheduleRetry(delay time.Duration) {
	j.RetryCount++
	j.Status = JobStatusPending
	next := time.Now().Add(delay)
	j.NextRetryAt = &next
	j.Error = ""
}

// Executor runs jobs of one kind
type Executor interface {
	Execute(ctx context.Context, job *Job) error
	// Retryable reports whether a failed job may run again
	Retryable() bool
}

// Config holds scheduler configuration
type Config struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
}

// DefaultConfig returns the worker pool defaults
func DefaultConfig() Config {
	return Config{
		MaxConcurrentJobs: 2,
		JobTimeout:        10 * time.Minute,
		RetryAttempts:     3,
		RetryDelay:        time.Minute,
	}
}

// ConfigFrom maps the loaded configuration, keeping defaults for zero values
func ConfigFrom(c config.SchedulerConfig) Config {
	out := DefaultConfig()
	if c.MaxConcurrentJobs > 0 {
		out.MaxConcurrentJobs = c.MaxConcurrentJobs
	}
	if c.JobTimeout > 0 {
		out.JobTimeout = c.JobTimeout
	}
	if c.RetryAttempts >= 0 {
		out.RetryAttempts = c.RetryAttempts
	}
	if c.RetryDelay > 0 {
		out.RetryDelay = c.RetryDelay
	}
	return out
}

// Scheduler dispatches submitted jobs to the executor registered for their kind
type Scheduler struct {
	config    Config
	executors map[string]Executor
	logger    *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg Config, log *zap.Logger) (*Scheduler, error) {
	if cfg.MaxConcurrentJobs <= 0 || cfg.JobTimeout <= 0 {
		return nil, fmt.Errorf("%w: workers and job timeout must be positive", ErrInvalidConfig)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		config:    cfg,
		executors: make(map[string]Executor),
		logger:    log.Named("scheduler"),
		jobs:      make(chan *Job, queueSize),
	}, nil
}

// Register binds an executor to a job kind. Call before Start.
func (s *Scheduler) Register(kind string, executor Executor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.executors[kind] = executor
}

// Start launches the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.isRunning = true
	s.jobs = make(chan *Job, queueSize)

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	for i := 0; i < s.config.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, s.jobs, i)
	}

	s.logger.Info("Scheduler started",
		zap.Int("workers", s.config.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers, or for ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	close(s.jobs)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues a new job of the given kind. Jobs of non-retryable
// executors never retry.
func (s *Scheduler) Submit(kind string, scheduledFor time.Time) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	executor, ok := s.executors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJobKind, kind)
	}
	if !s.isRunning {
		return nil, ErrSchedulerNotRunning
	}

	retries := 0
	if executor.Retryable() {
		retries = s.config.RetryAttempts
	}
	job := NewJob(kind, scheduledFor, retries)

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("kind", kind),
		)
		return job, nil
	default:
		return nil, ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, jobs <-chan *Job, workerID int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	if job.NextRetryAt != nil {
		wait := time.Until(*job.NextRetryAt)
		if wait > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}
		}
	}

	s.mu.Lock()
	executor := s.executors[job.Kind]
	s.mu.Unlock()

	jobCtx, jobLog := logger.WithJobID(ctx, s.logger, job.ID.String())
	jobLog = jobLog.With(zap.String("kind", job.Kind), zap.Int("worker_id", workerID))
	jobCtx = logger.WithContext(jobCtx, jobLog)
	jobCtx, cancel := context.WithTimeout(jobCtx, s.config.JobTimeout)
	defer cancel()

	job.start()
	jobLog.Info("Processing job")

	if err := s.execute(jobCtx, executor, job); err != nil {
		job.fail(err)
		jobLog.Error("Job failed", zap.Int("attempt", job.RetryCount+1), zap.Error(err))
		if job.ShouldRetry() {
			job.scheduleRetry(s.config.RetryDelay)
			s.requeue(job, jobLog)
		}
		return
	}

	job.complete()
	jobLog.Info("Job completed", zap.Duration("took", job.CompletedAt.Sub(*job.StartedAt)))
}

func (s *Scheduler) execute(ctx context.Context, executor Executor, job *Job) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "job."+job.Kind,
		telemetry.Attr(telemetry.SpanAttrJobID, job.ID),
		telemetry.Attr(telemetry.SpanAttrJobKind, job.Kind),
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
		telemetry.EndSpan(span, err)
	}()
	telemetry.WithProfilingLabels(ctx, telemetry.JobLabels(job.Kind), func(ctx context.Context) {
		err = executor.Execute(ctx, job)
	})
	return err
}

func (s *Scheduler) requeue(job *Job, jobLog *zap.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	select {
	case s.jobs <- job:
		jobLog.Info("Job scheduled for retry",
			zap.Int("retry_count", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
		)
	default:
		jobLog.Warn("Failed to re-queue job for retry")
	}
}
