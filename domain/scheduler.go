package domain

import "context"

// Scheduler runs a task once per day at a fixed wall-clock time. The timing
// mechanism (cron, OS timer, in-process ticker) is an implementation detail
// behind this interface.
type Scheduler interface {
	// Daily registers a task to run every day at the given "HH:MM" time.
	Daily(timeOfDay string, task func()) error

	// Run starts the scheduler and blocks until the context is canceled.
	// Due tasks execute synchronously, one at a time.
	Run(ctx context.Context) error
}
