package domain

import "context"

// StateStore persists per-repository version state and owns the on-disk
// layout of downloaded artifacts. State files exist iff at least one
// successful sync has completed; a nil state with a nil error means no
// prior sync.
type StateStore interface {
	// EnsureLayout creates the repository directory and its releases
	// subdirectory if they do not exist.
	EnsureLayout(repo Repository) error

	// ReleaseState reads the persisted release state, or nil if absent.
	ReleaseState(repo Repository) (*ReleaseState, error)

	// WriteReleaseState overwrites the persisted release state.
	WriteReleaseState(repo Repository, state ReleaseState) error

	// BranchState reads the persisted branch state, or nil if absent.
	BranchState(repo Repository) (*BranchState, error)

	// WriteBranchState overwrites the persisted branch state.
	WriteBranchState(repo Repository, state BranchState) error

	// AssetPath returns the destination path for a release asset.
	AssetPath(repo Repository, assetName string) string

	// ArchivePath returns the destination path for a branch archive.
	ArchivePath(repo Repository, branch string) string

	// WriteReleaseNotes writes the release-notes file from a commit list.
	WriteReleaseNotes(repo Repository, commits []Commit) error
}

// Downloader streams a remote file to a destination path inside the
// download directory.
type Downloader interface {
	Fetch(ctx context.Context, url, dest string) error
}
