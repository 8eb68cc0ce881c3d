package gitlab

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/rios0rios0/releasewatch/domain"
)

const sourceName = "gitlab"

var errClientNotInitialized = errors.New("gitlab client not initialized")

// Source implements domain.Source for GitLab.
type Source struct {
	token  string
	client *gl.Client
}

var _ domain.Source = (*Source)(nil)

// New creates a new GitLab source with the given token.
func New(token string) domain.Source {
	client, err := gl.NewClient(token)
	if err != nil {
		// Return a source that will fail on use rather than panicking at construction
		return &Source{token: token, client: nil}
	}
	return &Source{
		token:  token,
		client: client,
	}
}

func (s *Source) Name() string { return sourceName }

func (s *Source) MatchesURL(rawURL string) bool {
	return strings.Contains(rawURL, "gitlab.com")
}

// LatestRelease fetches the newest release of a project. GitLab orders the
// release list newest first.
func (s *Source) LatestRelease(
	ctx context.Context,
	repo domain.Repository,
) (*domain.Release, error) {
	if s.client == nil {
		return nil, errClientNotInitialized
	}

	releases, _, err := s.client.Releases.ListReleases(
		projectID(repo),
		&gl.ListReleasesOptions{ListOptions: gl.ListOptions{PerPage: 1}},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to fetch latest release of %s/%s: %w", repo.Owner, repo.Name, err,
		)
	}
	if len(releases) == 0 {
		return nil, fmt.Errorf("no releases found for %s/%s", repo.Owner, repo.Name)
	}

	release := releases[0]
	assets := make([]domain.Asset, 0, len(release.Assets.Links))
	for _, link := range release.Assets.Links {
		assets = append(assets, domain.Asset{
			Name:        link.Name,
			DownloadURL: link.URL,
		})
	}

	return &domain.Release{
		TagName:      release.TagName,
		TargetCommit: release.Commit.ID,
		Assets:       assets,
	}, nil
}

// BranchHead fetches the latest commit on the given branch.
func (s *Source) BranchHead(
	ctx context.Context,
	repo domain.Repository,
	branch string,
) (*domain.Commit, error) {
	if s.client == nil {
		return nil, errClientNotInitialized
	}

	commit, _, err := s.client.Commits.GetCommit(
		projectID(repo), branch, nil, gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to fetch head of %q in %s/%s: %w", branch, repo.Owner, repo.Name, err,
		)
	}
	return mapCommit(commit), nil
}

// CommitsBetween lists the commits between two refs via the repository
// compare API, oldest first.
func (s *Source) CommitsBetween(
	ctx context.Context,
	repo domain.Repository,
	base, head string,
) ([]domain.Commit, error) {
	if s.client == nil {
		return nil, errClientNotInitialized
	}

	comparison, _, err := s.client.Repositories.Compare(
		projectID(repo),
		&gl.CompareOptions{From: gl.Ptr(base), To: gl.Ptr(head)},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to compare %s..%s in %s/%s: %w", base, head, repo.Owner, repo.Name, err,
		)
	}

	commits := make([]domain.Commit, 0, len(comparison.Commits))
	for _, commit := range comparison.Commits {
		commits = append(commits, *mapCommit(commit))
	}
	return commits, nil
}

// ArchiveURL returns the branch zip archive in GitLab's URL shape.
func (s *Source) ArchiveURL(repo domain.Repository, branch string) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/-/archive/%s/%s-%s.zip",
		repo.Host, repo.Owner, repo.Name, branch, repo.Name, branch,
	)
}

func projectID(repo domain.Repository) string {
	return repo.Owner + "/" + repo.Name
}

func mapCommit(commit *gl.Commit) *domain.Commit {
	var date time.Time
	if commit.AuthoredDate != nil {
		date = *commit.AuthoredDate
	}
	return &domain.Commit{
		SHA:     commit.ID,
		Author:  commit.AuthorName,
		Date:    date,
		Message: commit.Message,
	}
}
