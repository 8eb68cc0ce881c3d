package cmd

import (
	"errors"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/releasewatch/config"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	// Global flags
	configPath  string
	downloadDir string
	verbose     bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "releasewatch",
	Short: "Release and branch downloader for Git hosting services",
	Long: `A tool that tracks repositories on GitHub or GitLab, detects new
releases and new commits on a branch, and mirrors the corresponding
artifacts (release assets, branch archive) into a local directory.

Persisted per-repository version state makes every check idempotent:
an unchanged remote causes zero downloads.

Usage modes:
  releasewatch sync  [url]   Check once and exit
  releasewatch watch [url]   Keep running with a daily scheduled check`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(logger.DebugLevel)
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)")
	rootCmd.PersistentFlags().StringVar(&downloadDir, "download-dir", "",
		"Directory to store downloads (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")
}

// loadConfig resolves the effective configuration: explicit --config path,
// auto-detected file, or built-in defaults, with flag overrides applied last.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		if found, err := config.FindConfigFile(); err == nil {
			path = found
		}
	}

	var cfg *config.Config
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		logger.Infof("Using config file: %s", path)
	} else {
		cfg = config.Default()
	}

	if downloadDir != "" {
		cfg.DownloadDir = downloadDir
	}
	return cfg, nil
}

// collectRepositories gathers the repository URLs to process: a positional
// URL runs single-repository mode; otherwise the config list and the
// repositories file are combined.
func collectRepositories(
	cfg *config.Config,
	args []string,
	repositoriesFile string,
) ([]string, error) {
	if len(args) > 0 {
		return []string{args[0]}, nil
	}

	urls := append([]string{}, cfg.Repositories...)

	file := repositoriesFile
	if file == "" {
		file = cfg.RepositoriesFile
	}
	if file != "" {
		fromFile, err := config.LoadRepositoriesFile(file)
		if err != nil {
			return nil, err
		}
		urls = append(urls, fromFile...)
	}

	if len(urls) == 0 {
		return nil, errors.New(
			"no repositories configured; pass a repository URL or use --repositories-file",
		)
	}
	return urls, nil
}
