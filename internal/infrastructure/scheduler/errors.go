package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned by Submit before Start or after Stop
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrJobQueueFull means every worker is busy and the buffer is full
	ErrJobQueueFull = errors.New("job queue is full")

	ErrUnknownJobKind = errors.New("unknown job kind")

	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
