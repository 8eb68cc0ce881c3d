package storage

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/rios0rios0/releasewatch/domain"
)

const (
	releaseStateFile = "version_info_release.txt"
	branchStateFile  = "version_info_master.txt"
	releaseNotesFile = "release_notes.txt"
	releasesDirName  = "releases"

	dirMode  = 0o755
	fileMode = 0o644
)

// Store persists version state and artifact layout below a filesystem root.
// Production code mounts an osfs at the download directory; tests mount a
// memfs. State files are plain text, one comma-separated record per file,
// overwritten wholesale on update.
type Store struct {
	fs billy.Filesystem
}

var _ domain.StateStore = (*Store)(nil)

// NewStore creates a store on the given filesystem root.
func NewStore(fs billy.Filesystem) *Store {
	return &Store{fs: fs}
}

// NewOSStore creates a store rooted at the given directory on the host
// filesystem.
func NewOSStore(root string) *Store {
	return NewStore(osfs.New(root))
}

// EnsureLayout creates the repository directory and its releases subdirectory.
func (s *Store) EnsureLayout(repo domain.Repository) error {
	dir := s.fs.Join(repo.Name, releasesDirName)
	if err := s.fs.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("failed to create %q: %w", dir, err)
	}
	return nil
}

// ReleaseState reads the persisted (tag, commit) pair, or nil if no release
// sync has completed yet.
func (s *Store) ReleaseState(repo domain.Repository) (*domain.ReleaseState, error) {
	fields, err := s.readStateFile(repo, releaseStateFile)
	if err != nil || fields == nil {
		return nil, err
	}
	return &domain.ReleaseState{Tag: fields[0], Commit: fields[1]}, nil
}

// WriteReleaseState overwrites the persisted release state.
func (s *Store) WriteReleaseState(repo domain.Repository, state domain.ReleaseState) error {
	return s.writeStateFile(repo, releaseStateFile, state.Tag, state.Commit)
}

// BranchState reads the persisted (branch, sha) pair, or nil if no branch
// sync has completed yet.
func (s *Store) BranchState(repo domain.Repository) (*domain.BranchState, error) {
	fields, err := s.readStateFile(repo, branchStateFile)
	if err != nil || fields == nil {
		return nil, err
	}
	return &domain.BranchState{Branch: fields[0], SHA: fields[1]}, nil
}

// WriteBranchState overwrites the persisted branch state.
func (s *Store) WriteBranchState(repo domain.Repository, state domain.BranchState) error {
	return s.writeStateFile(repo, branchStateFile, state.Branch, state.SHA)
}

// AssetPath returns the destination path for a release asset, relative to
// the filesystem root.
func (s *Store) AssetPath(repo domain.Repository, assetName string) string {
	return s.fs.Join(repo.Name, releasesDirName, assetName)
}

// ArchivePath returns the destination path for a branch archive.
func (s *Store) ArchivePath(repo domain.Repository, branch string) string {
	return s.fs.Join(repo.Name, fmt.Sprintf("%s_%s.zip", repo.Name, branch))
}

// WriteReleaseNotes writes the release-notes file, one line per commit.
func (s *Store) WriteReleaseNotes(repo domain.Repository, commits []domain.Commit) error {
	var b strings.Builder
	b.WriteString("Release Notes\n")
	b.WriteString("=============\n\n")
	for _, commit := range commits {
		fmt.Fprintf(
			&b, "- %s (by %s on %s)\n",
			commit.Title(), commit.Author, commit.Date.Format(time.RFC3339),
		)
	}

	path := s.fs.Join(repo.Name, releaseNotesFile)
	if err := util.WriteFile(s.fs, path, []byte(b.String()), fileMode); err != nil {
		return fmt.Errorf("failed to write release notes %q: %w", path, err)
	}
	return nil
}

func (s *Store) readStateFile(repo domain.Repository, name string) ([]string, error) {
	path := s.fs.Join(repo.Name, name)
	data, err := util.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file %q: %w", path, err)
	}

	fields := strings.SplitN(strings.TrimSpace(string(data)), ",", 2)
	if len(fields) != 2 {
		return nil, fmt.Errorf("malformed state file %q: %q", path, string(data))
	}
	return fields, nil
}

func (s *Store) writeStateFile(repo domain.Repository, name, first, second string) error {
	path := s.fs.Join(repo.Name, name)
	record := fmt.Sprintf("%s,%s\n", first, second)
	if err := util.WriteFile(s.fs, path, []byte(record), fileMode); err != nil {
		return fmt.Errorf("failed to write state file %q: %w", path, err)
	}
	return nil
}
