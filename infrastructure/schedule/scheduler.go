package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasewatch/domain"
)

// CronScheduler implements domain.Scheduler on a cron runner pinned to a
// configured timezone. Jobs registered here run one at a time.
type CronScheduler struct {
	cron     *cron.Cron
	location *time.Location
}

var _ domain.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler creates a scheduler evaluating wall-clock times in the
// given location.
func NewCronScheduler(location *time.Location) *CronScheduler {
	return &CronScheduler{
		cron:     cron.New(cron.WithLocation(location)),
		location: location,
	}
}

// Daily registers a task to run every day at the given "HH:MM" time.
func (s *CronScheduler) Daily(timeOfDay string, task func()) error {
	spec, err := dailySpec(timeOfDay)
	if err != nil {
		return err
	}

	if _, addErr := s.cron.AddFunc(spec, task); addErr != nil {
		return fmt.Errorf("failed to schedule daily task at %q: %w", timeOfDay, addErr)
	}

	logger.Infof(
		"Scheduled daily check at %s (%s)", timeOfDay, s.location.String(),
	)
	return nil
}

// Run starts the scheduler and blocks until the context is canceled, then
// waits for a running task to finish before returning.
func (s *CronScheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()

	logger.Info("Scheduler stopping...")
	<-s.cron.Stop().Done()
	return nil
}

// dailySpec converts an "HH:MM" wall-clock time into a cron expression.
func dailySpec(timeOfDay string) (string, error) {
	parsed, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return "", fmt.Errorf("invalid schedule time %q, expected \"HH:MM\": %w", timeOfDay, err)
	}
	return fmt.Sprintf("%d %d * * *", parsed.Minute(), parsed.Hour()), nil
}
