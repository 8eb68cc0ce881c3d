package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/releasewatch/domain"
)

func TestParseRepositoryURL(t *testing.T) {
	t.Parallel()

	t.Run("should parse owner and name from a GitHub URL", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "https://github.com/GreemDev/Ryujinx"

		// when
		repo, err := domain.ParseRepositoryURL(raw)

		// then
		require.NoError(t, err)
		assert.Equal(t, "GreemDev", repo.Owner)
		assert.Equal(t, "Ryujinx", repo.Name)
		assert.Equal(t, "github.com", repo.Host)
		assert.Equal(t, raw, repo.URL)
	})

	t.Run("should strip a .git suffix from the repository name", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "https://gitlab.com/group/project.git"

		// when
		repo, err := domain.ParseRepositoryURL(raw)

		// then
		require.NoError(t, err)
		assert.Equal(t, "group", repo.Owner)
		assert.Equal(t, "project", repo.Name)
		assert.Equal(t, "gitlab.com", repo.Host)
	})

	t.Run("should tolerate surrounding whitespace and trailing slash", func(t *testing.T) {
		t.Parallel()

		// given
		raw := "  https://github.com/owner/repo/  "

		// when
		repo, err := domain.ParseRepositoryURL(raw)

		// then
		require.NoError(t, err)
		assert.Equal(t, "owner", repo.Owner)
		assert.Equal(t, "repo", repo.Name)
	})

	tests := []struct {
		name string
		url  string
	}{
		{
			name: "should reject a URL with only an owner segment",
			url:  "https://github.com/onlyowner",
		},
		{
			name: "should reject a URL with an empty path",
			url:  "https://github.com/",
		},
		{
			name: "should reject a bare host name",
			url:  "github.com/owner/repo",
		},
		{
			name: "should reject an empty string",
			url:  "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			_, err := domain.ParseRepositoryURL(tt.url)

			// then
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidRepositoryURL)
		})
	}
}

func TestCommit_Title(t *testing.T) {
	t.Parallel()

	t.Run("should return the first line of a multi-line message", func(t *testing.T) {
		t.Parallel()

		// given
		commit := domain.Commit{Message: "fix: handle empty assets\n\nLonger body."}

		// when
		title := commit.Title()

		// then
		assert.Equal(t, "fix: handle empty assets", title)
	})

	t.Run("should return a single-line message unchanged", func(t *testing.T) {
		t.Parallel()

		// given
		commit := domain.Commit{Message: "chore: bump version"}

		// when
		title := commit.Title()

		// then
		assert.Equal(t, "chore: bump version", title)
	})
}

func TestReleaseState_Matches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		state    domain.ReleaseState
		release  domain.Release
		expected bool
	}{
		{
			name:     "should match when both tag and commit are equal",
			state:    domain.ReleaseState{Tag: "v1.0", Commit: "abc123"},
			release:  domain.Release{TagName: "v1.0", TargetCommit: "abc123"},
			expected: true,
		},
		{
			name:     "should not match when only the tag changed",
			state:    domain.ReleaseState{Tag: "v1.0", Commit: "abc123"},
			release:  domain.Release{TagName: "v1.1", TargetCommit: "abc123"},
			expected: false,
		},
		{
			name:     "should not match when only the commit changed",
			state:    domain.ReleaseState{Tag: "v1.0", Commit: "abc123"},
			release:  domain.Release{TagName: "v1.0", TargetCommit: "def456"},
			expected: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			result := tt.state.Matches(&tt.release)

			// then
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestSyncResult_String(t *testing.T) {
	t.Parallel()

	t.Run("should name all outcomes", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "failed", domain.SyncFailed.String())
		assert.Equal(t, "unchanged", domain.SyncUnchanged.String())
		assert.Equal(t, "updated", domain.SyncUpdated.String())
	})
}
