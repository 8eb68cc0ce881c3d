package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v66/github"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/rios0rios0/releasewatch/domain"
)

const (
	sourceName = "github"
	apiTimeout = 30 * time.Second
)

// Source implements domain.Source for GitHub.
type Source struct {
	token  string
	client *gh.Client
}

var _ domain.Source = (*Source)(nil)

// New creates a new GitHub source. An empty token means anonymous access,
// which is subject to the unauthenticated rate limit.
func New(token string) domain.Source {
	httpClient := &http.Client{
		Transport: cleanhttp.DefaultPooledTransport(),
		Timeout:   apiTimeout,
	}
	client := gh.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Source{
		token:  token,
		client: client,
	}
}

func (s *Source) Name() string { return sourceName }

func (s *Source) MatchesURL(rawURL string) bool {
	return strings.Contains(rawURL, "github.com")
}

// LatestRelease fetches the newest tagged release of a repository.
func (s *Source) LatestRelease(
	ctx context.Context,
	repo domain.Repository,
) (*domain.Release, error) {
	release, _, err := s.client.Repositories.GetLatestRelease(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to fetch latest release of %s/%s: %w", repo.Owner, repo.Name, err,
		)
	}

	assets := make([]domain.Asset, 0, len(release.Assets))
	for _, asset := range release.Assets {
		assets = append(assets, domain.Asset{
			Name:        asset.GetName(),
			DownloadURL: asset.GetBrowserDownloadURL(),
		})
	}

	return &domain.Release{
		TagName:      release.GetTagName(),
		TargetCommit: release.GetTargetCommitish(),
		Assets:       assets,
	}, nil
}

// BranchHead fetches the latest commit on the given branch.
func (s *Source) BranchHead(
	ctx context.Context,
	repo domain.Repository,
	branch string,
) (*domain.Commit, error) {
	commit, _, err := s.client.Repositories.GetCommit(ctx, repo.Owner, repo.Name, branch, nil)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to fetch head of %q in %s/%s: %w", branch, repo.Owner, repo.Name, err,
		)
	}
	return mapCommit(commit), nil
}

// CommitsBetween lists the commits from base (exclusive) to head (inclusive),
// oldest first, as returned by the compare API.
func (s *Source) CommitsBetween(
	ctx context.Context,
	repo domain.Repository,
	base, head string,
) ([]domain.Commit, error) {
	comparison, _, err := s.client.Repositories.CompareCommits(
		ctx, repo.Owner, repo.Name, base, head, nil,
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

// ArchiveURL returns the branch zip archive served by the web host.
func (s *Source) ArchiveURL(repo domain.Repository, branch string) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/archive/refs/heads/%s.zip",
		repo.Host, repo.Owner, repo.Name, branch,
	)
}

func mapCommit(commit *gh.RepositoryCommit) *domain.Commit {
	return &domain.Commit{
		SHA:     commit.GetSHA(),
		Author:  commit.GetCommit().GetAuthor().GetName(),
		Date:    commit.GetCommit().GetAuthor().GetDate().Time,
		Message: commit.GetCommit().GetMessage(),
	}
}
