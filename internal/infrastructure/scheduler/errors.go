package scheduler

import "errors"

var (
	// ErrInvalidSpec is returned for a cron expression the parser rejects
	ErrInvalidSpec = errors.New("invalid cron spec")

	// ErrDuplicateJob is returned when a job name is registered twice
	ErrDuplicateJob = errors.New("job already registered")

	// ErrJobNotFound is returned when triggering an unknown job
	ErrJobNotFound = errors.New("job not found")

	// ErrJobPanicked wraps a recovered job panic
	ErrJobPanicked = errors.New("job panicked")
)
