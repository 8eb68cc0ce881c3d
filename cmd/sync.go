package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	syncRepositoriesFile string
	syncBranch           string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var syncCmd = &cobra.Command{
	Use:   "sync [repository-url]",
	Short: "Check all tracked repositories once and download what changed",
	Long: `Fetch the latest release and branch head of every tracked repository,
compare against the persisted version state, and download release assets
and the branch archive for everything that changed. Exits afterwards.

With a positional repository URL only that repository is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	syncCmd.Flags().StringVar(
		&syncRepositoriesFile, "repositories-file", "",
		"File with newline-delimited repository URLs (overrides config)",
	)
	syncCmd.Flags().StringVar(
		&syncBranch, "branch", "",
		"Branch to track (overrides config, default \"master\")",
	)
	rootCmd.AddCommand(syncCmd)
}

func runSync(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	urls, err := collectRepositories(cfg, args, syncRepositoriesFile)
	if err != nil {
		return err
	}

	branch := syncBranch
	if branch == "" {
		branch = cfg.Branch
	}

	svc, err := buildSyncService(cfg)
	if err != nil {
		return err
	}

	summary := svc.Run(ctx, urls, branch)
	if summary.Failed > 0 {
		return fmt.Errorf("%d sync step(s) failed", summary.Failed)
	}
	return nil
}
