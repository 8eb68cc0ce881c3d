package domain

import "context"

// Source abstracts a Git hosting service (GitHub, GitLab, etc.).
// Each implementation handles authentication, release and commit metadata
// lookup, and archive URL construction for its platform.
type Source interface {
	// Name returns the source identifier (e.g. "github", "gitlab").
	Name() string

	// MatchesURL returns true if the given repository URL belongs to this source.
	MatchesURL(url string) bool

	// LatestRelease fetches the newest tagged release of a repository.
	LatestRelease(ctx context.Context, repo Repository) (*Release, error)

	// BranchHead fetches the latest commit on the given branch.
	BranchHead(ctx context.Context, repo Repository, branch string) (*Commit, error)

	// CommitsBetween lists the commits reachable from head but not from base,
	// oldest first. Used to generate release notes between two tags.
	CommitsBetween(ctx context.Context, repo Repository, base, head string) ([]Commit, error)

	// ArchiveURL returns the URL of a zip archive of the given branch.
	// The archive is served by the web host, not the API host.
	ArchiveURL(repo Repository, branch string) string
}
