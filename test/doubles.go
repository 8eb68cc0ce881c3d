// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"
	"strings"

	"github.com/rios0rios0/releasewatch/domain"
)

// ---------------------------------------------------------------------------
// SpySource
// ---------------------------------------------------------------------------

// SpySource implements domain.Source as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpySource struct {
	// --- identity ---
	SourceName string
	MatchHost  string // substring matched by MatchesURL; empty matches everything

	// --- LatestRelease ---
	Release    *domain.Release
	ReleaseErr error
	// spy: number of calls
	ReleaseCalls int

	// --- BranchHead ---
	Head    *domain.Commit
	HeadErr error
	// spy: branches requested
	HeadBranches []string

	// --- CommitsBetween ---
	Commits    []domain.Commit
	CommitsErr error
	// spy: "base..head" ranges requested
	ComparedRanges []string
}

var _ domain.Source = (*SpySource)(nil)

func (s *SpySource) Name() string { return s.SourceName }

func (s *SpySource) MatchesURL(url string) bool {
	if s.MatchHost == "" {
		return true
	}
	return strings.Contains(url, s.MatchHost)
}

func (s *SpySource) LatestRelease(
	_ context.Context,
	_ domain.Repository,
) (*domain.Release, error) {
	s.ReleaseCalls++
	return s.Release, s.ReleaseErr
}

func (s *SpySource) BranchHead(
	_ context.Context,
	_ domain.Repository,
	branch string,
) (*domain.Commit, error) {
	s.HeadBranches = append(s.HeadBranches, branch)
	return s.Head, s.HeadErr
}

func (s *SpySource) CommitsBetween(
	_ context.Context,
	_ domain.Repository,
	base, head string,
) ([]domain.Commit, error) {
	s.ComparedRanges = append(s.ComparedRanges, base+".."+head)
	return s.Commits, s.CommitsErr
}

func (s *SpySource) ArchiveURL(repo domain.Repository, branch string) string {
	return fmt.Sprintf(
		"https://%s/%s/%s/archive/refs/heads/%s.zip",
		repo.Host, repo.Owner, repo.Name, branch,
	)
}

// ---------------------------------------------------------------------------
// SpyDownloader
// ---------------------------------------------------------------------------

// FetchCall records one Fetch invocation.
type FetchCall struct {
	URL  string
	Dest string
}

// SpyDownloader implements domain.Downloader as a configurable spy.
type SpyDownloader struct {
	// Err is returned for every fetch when set.
	Err error
	// FailURLs lists URLs whose fetch should fail individually.
	FailURLs map[string]error

	// spy: calls received
	Calls []FetchCall
}

var _ domain.Downloader = (*SpyDownloader)(nil)

func (d *SpyDownloader) Fetch(_ context.Context, url, dest string) error {
	d.Calls = append(d.Calls, FetchCall{URL: url, Dest: dest})
	if err, ok := d.FailURLs[url]; ok {
		return err
	}
	return d.Err
}
