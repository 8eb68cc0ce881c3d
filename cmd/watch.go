package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releasewatch/domain"
	"github.com/rios0rios0/releasewatch/infrastructure/schedule"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	watchRepositoriesFile string
	watchBranch           string
	watchScheduleTime     string
	watchTimezone         string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var watchCmd = &cobra.Command{
	Use:   "watch [repository-url]",
	Short: "Run the daily update checker",
	Long: `Keep running and check all tracked repositories for new releases and
new branch commits once per day at a fixed wall-clock time.

Repositories without prior version state are downloaded immediately at
startup. The process stops cleanly on an interrupt signal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	watchCmd.Flags().StringVar(
		&watchRepositoriesFile, "repositories-file", "",
		"File with newline-delimited repository URLs (overrides config)",
	)
	watchCmd.Flags().StringVar(
		&watchBranch, "branch", "",
		"Branch to track (overrides config, default \"master\")",
	)
	watchCmd.Flags().StringVar(
		&watchScheduleTime, "schedule-time", "",
		"Daily check time as \"HH:MM\" (overrides config, default \"10:00\")",
	)
	watchCmd.Flags().StringVar(
		&watchTimezone, "timezone", "",
		"IANA timezone for the schedule (overrides config, default UTC)",
	)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if watchScheduleTime != "" {
		cfg.Schedule.Time = watchScheduleTime
	}
	if watchTimezone != "" {
		cfg.Schedule.Timezone = watchTimezone
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return validateErr
	}

	urls, err := collectRepositories(cfg, args, watchRepositoriesFile)
	if err != nil {
		return err
	}

	branch := watchBranch
	if branch == "" {
		branch = cfg.Branch
	}

	svc, err := buildSyncService(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial download for repositories that have never been synced
	for _, raw := range urls {
		repo, parseErr := domain.ParseRepositoryURL(raw)
		if parseErr != nil {
			logger.Errorf("Skipping repository: %v", parseErr)
			continue
		}
		repo.Branch = branch

		if svc.NeedsInitialSync(repo) {
			logger.Infof("Performing initial download for %s/%s...", repo.Owner, repo.Name)
			svc.SyncRepository(ctx, repo)
		}
	}

	location, err := cfg.Location()
	if err != nil {
		return err
	}

	scheduler := schedule.NewCronScheduler(location)
	if scheduleErr := scheduler.Daily(cfg.Schedule.Time, func() {
		logger.Info("Daily update check started")
		svc.Run(ctx, urls, branch)
		logger.Info("Daily update check finished")
	}); scheduleErr != nil {
		return scheduleErr
	}

	logger.Infof(
		"Update checker running. Daily checks at %s (%s).",
		cfg.Schedule.Time, cfg.Schedule.Timezone,
	)

	if runErr := scheduler.Run(ctx); runErr != nil {
		return runErr
	}
	logger.Info("Update checker stopped")
	return nil
}
