package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ideation/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Submitter queues a job of one kind
type Submitter interface {
	Submit(kind string, scheduledFor time.Time) (*Job, error)
}

// DailyTriggerConfig holds the local time of day a job fires
type DailyTriggerConfig struct {
	Hour   int
	Minute int
	// CheckInterval is how often the clock is checked
	CheckInterval time.Duration
}

// DailyTriggerConfigFrom maps the recap configuration
func DailyTriggerConfigFrom(c config.RecapConfig) DailyTriggerConfig {
	cfg := DailyTriggerConfig{Hour: c.Hour, Minute: c.Minute, CheckInterval: c.CheckInterval}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	return cfg
}

// DailyTrigger submits one job of its kind per day, the first time the
// clock is checked in [Hour:Minute, Hour:Minute+CheckInterval).
type DailyTrigger struct {
	config    DailyTriggerConfig
	kind      string
	submitter Submitter
	logger    *zap.Logger
	now       func() time.Time

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
}

// NewDailyTrigger creates a trigger for the given job kind
func NewDailyTrigger(cfg DailyTriggerConfig, kind string, submitter Submitter, logger *zap.Logger) (*DailyTrigger, error) {
	if cfg.Hour < 0 || cfg.Hour > 23 || cfg.Minute < 0 || cfg.Minute > 59 {
		return nil, fmt.Errorf("%w: time of day %02d:%02d", ErrInvalidConfig, cfg.Hour, cfg.Minute)
	}
	if cfg.CheckInterval <= 0 {
		return nil, fmt.Errorf("%w: check interval must be positive", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyTrigger{
		config:    cfg,
		kind:      kind,
		submitter: submitter,
		logger:    logger.Named("daily_trigger").With(zap.String("kind", kind)),
		now:       time.Now,
	}, nil
}

// Start starts the check loop
func (d *DailyTrigger) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.isRunning {
		return nil
	}
	d.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.wg.Add(1)
	go d.runLoop(ctx)

	d.logger.Info("Daily trigger started",
		zap.Int("hour", d.config.Hour),
		zap.Int("minute", d.config.Minute),
		zap.Duration("check_interval", d.config.CheckInterval),
	)
	return nil
}

// Stop stops the check loop
func (d *DailyTrigger) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.isRunning {
		d.mu.Unlock()
		return nil
	}
	d.isRunning = false
	d.cancel()
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *DailyTrigger) runLoop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.check()
		}
	}
}

// check submits the job when the current time falls in today's firing
// window and it has not fired today. It reports whether it submitted.
func (d *DailyTrigger) check() bool {
	now := d.now()
	today := now.Format("2006-01-02")
	target := time.Date(now.Year(), now.Month(), now.Day(), d.config.Hour, d.config.Minute, 0, 0, now.Location())
	if now.Before(target) || !now.Before(target.Add(d.config.CheckInterval)) {
		return false
	}

	d.mu.Lock()
	if d.lastRunDate == today {
		d.mu.Unlock()
		return false
	}
	d.lastRunDate = today
	d.mu.Unlock()

	job, err := d.submitter.Submit(d.kind, now)
	if err != nil {
		d.logger.Error("Failed to submit daily job", zap.Error(err))
		return false
	}
	d.logger.Info("Daily job submitted", zap.String("job_id", job.ID.String()))
	return true
}
