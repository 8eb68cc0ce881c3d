package domain

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrInvalidRepositoryURL indicates a repository URL without an owner and
// repository segment.
var ErrInvalidRepositoryURL = errors.New(
	"invalid repository URL, expected format 'https://<host>/<owner>/<repo>'",
)

// Repository identifies a tracked repository on a hosting service.
type Repository struct {
	Owner  string
	Name   string
	Host   string // e.g. "github.com"
	URL    string // original URL as configured
	Branch string // tracked branch, e.g. "master"
}

// ParseRepositoryURL derives a Repository from a web URL such as
// "https://github.com/GreemDev/Ryujinx". The URL must carry at least an
// owner and a repository path segment.
func ParseRepositoryURL(raw string) (Repository, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Repository{}, fmt.Errorf("failed to parse %q: %w", raw, err)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if parsed.Host == "" || len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, fmt.Errorf("%w: %q", ErrInvalidRepositoryURL, raw)
	}

	return Repository{
		Owner: parts[0],
		Name:  strings.TrimSuffix(parts[1], ".git"),
		Host:  parsed.Host,
		URL:   raw,
	}, nil
}

// Release is the latest tagged release of a repository as reported by the
// hosting service.
type Release struct {
	TagName      string
	TargetCommit string
	Assets       []Asset
}

// Asset is a named binary file attached to a release.
type Asset struct {
	Name        string
	DownloadURL string
}

// Commit is a single commit as reported by the hosting service.
type Commit struct {
	SHA     string
	Author  string
	Date    time.Time
	Message string
}

// Title returns the first line of the commit message.
func (c Commit) Title() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// ReleaseState is the persisted record of the last successfully synced
// release. Both fields participate in the change check.
type ReleaseState struct {
	Tag    string
	Commit string
}

// Matches reports whether the persisted state already covers the given release.
func (s ReleaseState) Matches(r *Release) bool {
	return s.Tag == r.TagName && s.Commit == r.TargetCommit
}

// BranchState is the persisted record of the last successfully synced
// branch head.
type BranchState struct {
	Branch string
	SHA    string
}

// SyncResult is the outcome of a single sync attempt.
type SyncResult int

const (
	// SyncFailed means the attempt was aborted and state was left untouched.
	SyncFailed SyncResult = iota
	// SyncUnchanged means the remote matches persisted state, nothing was downloaded.
	SyncUnchanged
	// SyncUpdated means artifacts were downloaded and state was rewritten.
	SyncUpdated
)

func (r SyncResult) String() string {
	switch r {
	case SyncFailed:
		return "failed"
	case SyncUnchanged:
		return "unchanged"
	case SyncUpdated:
		return "updated"
	default:
		return fmt.Sprintf("SyncResult(%d)", int(r))
	}
}
