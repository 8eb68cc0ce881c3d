package cmd

import (
	"fmt"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/dig"

	"github.com/rios0rios0/releasewatch/application"
	"github.com/rios0rios0/releasewatch/config"
	"github.com/rios0rios0/releasewatch/domain"
	"github.com/rios0rios0/releasewatch/infrastructure/source"
	"github.com/rios0rios0/releasewatch/infrastructure/source/github"
	"github.com/rios0rios0/releasewatch/infrastructure/source/gitlab"
	"github.com/rios0rios0/releasewatch/infrastructure/storage"
)

// buildSyncService wires the service graph via DIG: one filesystem rooted at
// the download directory shared by store and downloader, plus the configured
// sources.
func buildSyncService(cfg *config.Config) (*application.SyncService, error) {
	container := dig.New()

	providers := []interface{}{
		func() billy.Filesystem {
			return osfs.New(cfg.DownloadDir)
		},
		func(fs billy.Filesystem) domain.StateStore {
			return storage.NewStore(fs)
		},
		func(fs billy.Filesystem) domain.Downloader {
			return storage.NewHTTPDownloader(fs, storage.DefaultDownloadTimeout)
		},
		func() *source.Registry {
			return source.NewRegistry(
				github.New(cfg.TokenFor("github")),
				gitlab.New(cfg.TokenFor("gitlab")),
			)
		},
		application.NewSyncService,
	}

	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, fmt.Errorf("failed to register dependencies: %w", err)
		}
	}

	var svc *application.SyncService
	if err := container.Invoke(func(s *application.SyncService) { svc = s }); err != nil {
		return nil, fmt.Errorf("failed to build sync service: %w", err)
	}
	return svc, nil
}
