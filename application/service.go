package application

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/releasewatch/domain"
	sourcePkg "github.com/rios0rios0/releasewatch/infrastructure/source"
)

// SyncService orchestrates the idempotent sync flow per tracked repository:
// fetch remote state -> compare against persisted state -> download -> update
// state. Repositories are processed strictly sequentially.
type SyncService struct {
	sources    *sourcePkg.Registry
	store      domain.StateStore
	downloader domain.Downloader
}

// NewSyncService creates a new service over the given collaborators.
func NewSyncService(
	sources *sourcePkg.Registry,
	store domain.StateStore,
	downloader domain.Downloader,
) *SyncService {
	return &SyncService{
		sources:    sources,
		store:      store,
		downloader: downloader,
	}
}

// Summary tallies the outcomes of one run over all repositories.
type Summary struct {
	Repositories int
	Updated      int
	Unchanged    int
	Failed       int
}

// Run syncs every repository URL sequentially. A malformed URL or a failing
// repository never aborts the others.
func (s *SyncService) Run(ctx context.Context, urls []string, branch string) Summary {
	var summary Summary

	for _, raw := range urls {
		repo, err := domain.ParseRepositoryURL(raw)
		if err != nil {
			logger.Errorf("Skipping repository: %v", err)
			summary.Failed++
			continue
		}
		repo.Branch = branch

		summary.Repositories++
		releaseResult, branchResult := s.SyncRepository(ctx, repo)
		summary.count(releaseResult)
		summary.count(branchResult)
	}

	logger.Infof(
		"Run complete: %d repo(s) processed, %d updated, %d unchanged, %d failed",
		summary.Repositories, summary.Updated, summary.Unchanged, summary.Failed,
	)
	return summary
}

// SyncRepository resolves the hosting service for one repository, prepares
// its directory layout, and runs the branch sync followed by the release sync.
func (s *SyncService) SyncRepository(
	ctx context.Context,
	repo domain.Repository,
) (releaseResult, branchResult domain.SyncResult) {
	src, err := s.sources.ForURL(repo.URL)
	if err != nil {
		logger.Errorf("Cannot sync %s/%s: %v", repo.Owner, repo.Name, err)
		return domain.SyncFailed, domain.SyncFailed
	}

	if layoutErr := s.store.EnsureLayout(repo); layoutErr != nil {
		logger.Errorf("Cannot sync %s/%s: %v", repo.Owner, repo.Name, layoutErr)
		return domain.SyncFailed, domain.SyncFailed
	}

	branchResult = s.SyncBranch(ctx, src, repo, repo.Branch)
	releaseResult = s.SyncRelease(ctx, src, repo)
	return releaseResult, branchResult
}

// NeedsInitialSync reports whether a repository has never completed both a
// release and a branch sync. An unreadable state file also triggers a fresh
// sync.
func (s *SyncService) NeedsInitialSync(repo domain.Repository) bool {
	releaseState, err := s.store.ReleaseState(repo)
	if err != nil || releaseState == nil {
		return true
	}
	branchState, err := s.store.BranchState(repo)
	return err != nil || branchState == nil
}

// SyncRelease checks the latest tagged release against persisted state and
// downloads all assets when the (tag, target commit) pair changed. Individual
// asset failures are logged and do not abort the sync; state advances after
// the asset pass either way, so a partially failed set is not retried until
// the remote changes again.
func (s *SyncService) SyncRelease(
	ctx context.Context,
	src domain.Source,
	repo domain.Repository,
) domain.SyncResult {
	release, err := src.LatestRelease(ctx, repo)
	if err != nil {
		logger.Errorf("Failed to fetch latest release of %s/%s: %v", repo.Owner, repo.Name, err)
		return domain.SyncFailed
	}

	state, err := s.store.ReleaseState(repo)
	if err != nil {
		logger.Errorf("Failed to read release state of %s/%s: %v", repo.Owner, repo.Name, err)
		return domain.SyncFailed
	}

	if state != nil && state.Matches(release) {
		logger.Infof(
			"Latest release (%s) of %s/%s already downloaded",
			release.TagName, repo.Owner, repo.Name,
		)
		return domain.SyncUnchanged
	}

	logger.Infof(
		"New release of %s/%s found: %s. Downloading %d asset(s)...",
		repo.Owner, repo.Name, release.TagName, len(release.Assets),
	)
	warnOnDowngrade(state, release)

	for _, asset := range release.Assets {
		logger.Infof("Downloading release asset: %s", asset.Name)
		dest := s.store.AssetPath(repo, asset.Name)
		if fetchErr := s.downloader.Fetch(ctx, asset.DownloadURL, dest); fetchErr != nil {
			// Best effort: a single broken asset must not block its siblings.
			logger.Errorf("Failed to download %q: %v", asset.DownloadURL, fetchErr)
		}
	}

	s.writeReleaseNotes(ctx, src, repo, state, release)

	newState := domain.ReleaseState{Tag: release.TagName, Commit: release.TargetCommit}
	if writeErr := s.store.WriteReleaseState(repo, newState); writeErr != nil {
		logger.Errorf("Failed to write release state of %s/%s: %v", repo.Owner, repo.Name, writeErr)
		return domain.SyncFailed
	}

	logger.Infof("Release state of %s/%s updated: %s", repo.Owner, repo.Name, release.TagName)
	return domain.SyncUpdated
}

// SyncBranch checks the head of the tracked branch against persisted state
// and downloads the branch archive when the commit changed. State advances
// only after the archive is fully written, so a failed download is retried
// on the next tick.
func (s *SyncService) SyncBranch(
	ctx context.Context,
	src domain.Source,
	repo domain.Repository,
	branch string,
) domain.SyncResult {
	head, err := src.BranchHead(ctx, repo, branch)
	if err != nil {
		logger.Errorf(
			"Failed to fetch head of %q in %s/%s: %v", branch, repo.Owner, repo.Name, err,
		)
		return domain.SyncFailed
	}

	state, err := s.store.BranchState(repo)
	if err != nil {
		logger.Errorf("Failed to read branch state of %s/%s: %v", repo.Owner, repo.Name, err)
		return domain.SyncFailed
	}

	if state != nil && state.SHA == head.SHA {
		logger.Infof("Branch %q of %s/%s is up to date", branch, repo.Owner, repo.Name)
		return domain.SyncUnchanged
	}

	logger.Infof(
		"New commit on %q of %s/%s: %s. Downloading archive...",
		branch, repo.Owner, repo.Name, head.SHA,
	)

	url := src.ArchiveURL(repo, branch)
	dest := s.store.ArchivePath(repo, branch)
	if fetchErr := s.downloader.Fetch(ctx, url, dest); fetchErr != nil {
		logger.Errorf("Failed to download archive %q: %v", url, fetchErr)
		return domain.SyncFailed
	}

	newState := domain.BranchState{Branch: branch, SHA: head.SHA}
	if writeErr := s.store.WriteBranchState(repo, newState); writeErr != nil {
		logger.Errorf("Failed to write branch state of %s/%s: %v", repo.Owner, repo.Name, writeErr)
		return domain.SyncFailed
	}

	logger.Infof("Branch state of %s/%s updated: %s", repo.Owner, repo.Name, head.SHA)
	return domain.SyncUpdated
}

// writeReleaseNotes generates the release-notes file from the commit range
// between the previously synced tag and the new one. Without a previous
// state there is no range, so the notes only carry the header. Failures here
// never fail the release sync.
func (s *SyncService) writeReleaseNotes(
	ctx context.Context,
	src domain.Source,
	repo domain.Repository,
	previous *domain.ReleaseState,
	release *domain.Release,
) {
	var commits []domain.Commit
	if previous != nil && previous.Tag != release.TagName {
		var err error
		commits, err = src.CommitsBetween(ctx, repo, previous.Tag, release.TagName)
		if err != nil {
			logger.Warnf(
				"Failed to fetch commits %s..%s of %s/%s: %v",
				previous.Tag, release.TagName, repo.Owner, repo.Name, err,
			)
			commits = nil
		}
	}

	if err := s.store.WriteReleaseNotes(repo, commits); err != nil {
		logger.Errorf("Failed to write release notes of %s/%s: %v", repo.Owner, repo.Name, err)
		return
	}
	logger.Infof("Release notes of %s/%s generated", repo.Owner, repo.Name)
}

// warnOnDowngrade flags a release whose tag sorts below the recorded one.
// Only meaningful when both tags are valid semver.
func warnOnDowngrade(state *domain.ReleaseState, release *domain.Release) {
	if state == nil || !semver.IsValid(state.Tag) || !semver.IsValid(release.TagName) {
		return
	}
	if semver.Compare(release.TagName, state.Tag) < 0 {
		logger.Warnf(
			"Latest release %s sorts below previously synced %s",
			release.TagName, state.Tag,
		)
	}
}

func (s *Summary) count(result domain.SyncResult) {
	switch result {
	case domain.SyncUpdated:
		s.Updated++
	case domain.SyncUnchanged:
		s.Unchanged++
	case domain.SyncFailed:
		s.Failed++
	}
}
