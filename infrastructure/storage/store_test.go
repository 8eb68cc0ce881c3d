package storage_test

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releasewatch/domain"
	"github.com/rios0rios0/releasewatch/infrastructure/storage"
)

func testRepo() domain.Repository {
	return domain.Repository{
		Owner:  "GreemDev",
		Name:   "Ryujinx",
		Host:   "github.com",
		URL:    "https://github.com/GreemDev/Ryujinx",
		Branch: "master",
	}
}

func TestStore_EnsureLayout(t *testing.T) {
	t.Parallel()

	t.Run("should create the repository and releases directories", func(t *testing.T) {
		t.Parallel()

		// given
		fs := memfs.New()
		store := storage.NewStore(fs)

		// when
		err := store.EnsureLayout(testRepo())

		// then
		require.NoError(t, err)
		info, statErr := fs.Stat("Ryujinx/releases")
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	})

	t.Run("should be idempotent", func(t *testing.T) {
		t.Parallel()

		// given
		fs := memfs.New()
		store := storage.NewStore(fs)
		require.NoError(t, store.EnsureLayout(testRepo()))

		// when
		err := store.EnsureLayout(testRepo())

		// then
		require.NoError(t, err)
	})
}

func TestStore_ReleaseState(t *testing.T) {
	t.Parallel()

	t.Run("should return nil when no state file exists", func(t *testing.T) {
		t.Parallel()

		// given
		store := storage.NewStore(memfs.New())

		// when
		state, err := store.ReleaseState(testRepo())

		// then
		require.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("should round-trip a written state", func(t *testing.T) {
		t.Parallel()

		// given
		store := storage.NewStore(memfs.New())
		written := domain.ReleaseState{Tag: "v1.0", Commit: "abc123"}
		require.NoError(t, store.WriteReleaseState(testRepo(), written))

		// when
		state, err := store.ReleaseState(testRepo())

		// then
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, written, *state)
	})

	t.Run("should persist the record as a comma-separated line", func(t *testing.T) {
		t.Parallel()

		// given
		fs := memfs.New()
		store := storage.NewStore(fs)
		require.NoError(t, store.WriteReleaseState(
			testRepo(), domain.ReleaseState{Tag: "v1.0", Commit: "abc123"},
		))

		// when
		data, err := util.ReadFile(fs, "Ryujinx/version_info_release.txt")

		// then
		require.NoError(t, err)
		assert.Equal(t, "v1.0,abc123\n", string(data))
	})

	t.Run("should fail on a malformed state file", func(t *testing.T) {
		t.Parallel()

		// given
		fs := memfs.New()
		store := storage.NewStore(fs)
		require.NoError(t, util.WriteFile(
			fs, "Ryujinx/version_info_release.txt", []byte("no-comma-here"), 0o644,
		))

		// when
		_, err := store.ReleaseState(testRepo())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "malformed state file")
	})

	t.Run("should overwrite a previous state wholesale", func(t *testing.T) {
		t.Parallel()

		// given
		store := storage.NewStore(memfs.New())
		require.NoError(t, store.WriteReleaseState(
			testRepo(), domain.ReleaseState{Tag: "v1.0", Commit: "abc123"},
		))

		// when
		require.NoError(t, store.WriteReleaseState(
			testRepo(), domain.ReleaseState{Tag: "v1.1", Commit: "def456"},
		))

		// then
		state, err := store.ReleaseState(testRepo())
		require.NoError(t, err)
		assert.Equal(t, domain.ReleaseState{Tag: "v1.1", Commit: "def456"}, *state)
	})
}

func TestStore_BranchState(t *testing.T) {
	t.Parallel()

	t.Run("should return nil when no state file exists", func(t *testing.T) {
		t.Parallel()

		// given
		store := storage.NewStore(memfs.New())

		// when
		state, err := store.BranchState(testRepo())

		// then
		require.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("should round-trip a written state", func(t *testing.T) {
		t.Parallel()

		// given
		store := storage.NewStore(memfs.New())
		written := domain.BranchState{Branch: "master", SHA: "abc123"}
		require.NoError(t, store.WriteBranchState(testRepo(), written))

		// when
		state, err := store.BranchState(testRepo())

		// then
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.Equal(t, written, *state)
	})
}

func TestStore_Paths(t *testing.T) {
	t.Parallel()

	t.Run("should place assets below the releases directory", func(t *testing.T) {
		t.Parallel()

		// given
		store := storage.NewStore(memfs.New())

		// when
		path := store.AssetPath(testRepo(), "ryujinx-linux-x64.tar.gz")

		// then
		assert.Equal(t, "Ryujinx/releases/ryujinx-linux-x64.tar.gz", path)
	})

	t.Run("should name the archive after repository and branch", func(t *testing.T) {
		t.Parallel()

		// given
		store := storage.NewStore(memfs.New())

		// when
		path := store.ArchivePath(testRepo(), "master")

		// then
		assert.Equal(t, "Ryujinx/Ryujinx_master.zip", path)
	})
}

func TestStore_WriteReleaseNotes(t *testing.T) {
	t.Parallel()

	t.Run("should write a header and one line per commit", func(t *testing.T) {
		t.Parallel()

		// given
		fs := memfs.New()
		store := storage.NewStore(fs)
		date := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
		commits := []domain.Commit{
			{SHA: "abc", Author: "Alice", Date: date, Message: "fix: crash on start\n\nDetails."},
			{SHA: "def", Author: "Bob", Date: date, Message: "feat: add vulkan backend"},
		}

		// when
		err := store.WriteReleaseNotes(testRepo(), commits)

		// then
		require.NoError(t, err)
		data, readErr := util.ReadFile(fs, "Ryujinx/release_notes.txt")
		require.NoError(t, readErr)
		content := string(data)
		assert.Contains(t, content, "Release Notes\n=============\n\n")
		assert.Contains(t, content, "- fix: crash on start (by Alice on 2026-08-30T12:00:00Z)")
		assert.Contains(t, content, "- feat: add vulkan backend (by Bob on 2026-08-30T12:00:00Z)")
	})

	t.Run("should write only the header for an empty commit list", func(t *testing.T) {
		t.Parallel()

		// given
		fs := memfs.New()
		store := storage.NewStore(fs)

		// when
		err := store.WriteReleaseNotes(testRepo(), nil)

		// then
		require.NoError(t, err)
		data, readErr := util.ReadFile(fs, "Ryujinx/release_notes.txt")
		require.NoError(t, readErr)
		assert.Equal(t, "Release Notes\n=============\n\n", string(data))
	})
}
