package git

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/reposync/errors"
)

func TestNewDescriptor(t *testing.T) {
	t.Run("derives paths from the url", func(t *testing.T) {
		d := NewDescriptor("https://github.com/org/repo.git", "/var/lib/reposync")

		assert.Equal(t, "repo", d.Name)
		assert.Equal(t, "https://github.com/org/repo.git", d.CloneFrom())
		assert.Equal(t, filepath.FromSlash("/var/lib/reposync/repos/github.com/org/repo"), d.CloneTo())
		assert.Equal(t, filepath.FromSlash("/var/lib/reposync/locks/github.com/org/repo.lock"), d.LockPath())
		assert.Empty(t, d.ExtraCloneArgs())
		require.NoError(t, d.Validate())
	})

	t.Run("options override derived values", func(t *testing.T) {
		args := []string{"--depth", "1"}
		d := NewDescriptor("git@github.com:org/tools", "/var/lib/reposync",
			WithName("tools"),
			WithPath("/srv/tools"),
			WithLockFile("/srv/locks/tools.lock"),
			WithCloneArgs(args...),
		)
		args[0] = "--mutated"

		assert.Equal(t, "tools", d.Name)
		assert.Equal(t, "/srv/tools", d.CloneTo())
		assert.Equal(t, "/srv/locks/tools.lock", d.LockPath())
		assert.Equal(t, []string{"--depth", "1"}, d.ExtraCloneArgs())
	})

	t.Run("distinct working copies get distinct lock files", func(t *testing.T) {
		a := NewDescriptor("https://github.com/org/a_b", "/base")
		b := NewDescriptor("https://github.com/org_a/b", "/base")
		c := NewDescriptor("https://github.com/org/a/b", "/base")

		assert.NotEqual(t, a.LockPath(), b.LockPath())
		assert.NotEqual(t, a.LockPath(), c.LockPath())
		assert.NotEqual(t, b.LockPath(), c.LockPath())
	})

	t.Run("same url maps to the same paths", func(t *testing.T) {
		a := NewDescriptor("https://github.com/org/repo.git", "/base")
		b := NewDescriptor("git@github.com:org/repo", "/base")

		assert.Equal(t, a.CloneTo(), b.CloneTo())
		assert.Equal(t, a.LockPath(), b.LockPath())
	})
}

func TestDescriptor_Validate(t *testing.T) {
	tests := []struct {
		name  string
		desc  Descriptor
		field string
	}{
		{
			name:  "missing url",
			desc:  Descriptor{Path: "/srv/repo", LockFile: "/srv/repo.lock"},
			field: "url",
		},
		{
			name:  "missing path",
			desc:  Descriptor{URL: "https://example.com/repo", LockFile: "/srv/repo.lock"},
			field: "path",
		},
		{
			name:  "missing lock file",
			desc:  Descriptor{URL: "https://example.com/repo", Path: "/srv/repo"},
			field: "lock_file",
		},
		{
			name:  "lock file inside the working copy",
			desc:  Descriptor{URL: "https://example.com/repo", Path: "/srv/repo", LockFile: "/srv/repo/.git/sync.lock"},
			field: "lock_file",
		},
		{
			name:  "lock file is the working copy",
			desc:  Descriptor{URL: "https://example.com/repo", Path: "/srv/repo", LockFile: "/srv/repo"},
			field: "lock_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))

			var platformErr errors.PlatformError
			require.True(t, errors.As(err, &platformErr))
			assert.Equal(t, tt.field, platformErr.Context()["field"])
		})
	}

	t.Run("sibling lock file is fine", func(t *testing.T) {
		d := Descriptor{URL: "https://example.com/repo", Path: "/srv/repo", LockFile: "/srv/repo.lock"}
		assert.NoError(t, d.Validate())
	})
}
