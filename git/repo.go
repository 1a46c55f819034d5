package git

import (
	"path/filepath"
	"strings"

	"github.com/jmgilman/reposync/errors"
)

// Repo describes a repository managed by a Syncer.
//
// LockPath must be unique per distinct CloneTo. Two Repo values with the same
// CloneTo and different lock paths are not serialized against each other, and
// the interface cannot detect that. Descriptor derives both from one key when
// built with NewDescriptor.
type Repo interface {
	// CloneFrom is the source location handed to git clone.
	CloneFrom() string

	// CloneTo is the local working copy path.
	CloneTo() string

	// ExtraCloneArgs are inserted between "clone" and the source location.
	ExtraCloneArgs() []string

	// LockPath is the lock file guarding CloneTo.
	LockPath() string
}

// Descriptor is the stock Repo implementation.
type Descriptor struct {
	Name      string   `yaml:"name"`
	URL       string   `yaml:"url"`
	Path      string   `yaml:"path,omitempty"`
	LockFile  string   `yaml:"lock_file,omitempty"`
	CloneArgs []string `yaml:"clone_args,omitempty"`
}

var _ Repo = (*Descriptor)(nil)

// DescriptorOption configures a Descriptor created by NewDescriptor.
type DescriptorOption func(*Descriptor)

// WithPath overrides the derived working copy path.
func WithPath(path string) DescriptorOption {
	return func(d *Descriptor) {
		d.Path = path
	}
}

// WithLockFile overrides the derived lock file path.
func WithLockFile(path string) DescriptorOption {
	return func(d *Descriptor) {
		d.LockFile = path
	}
}

// WithCloneArgs sets the extra arguments passed to git clone.
func WithCloneArgs(args ...string) DescriptorOption {
	return func(d *Descriptor) {
		d.CloneArgs = append([]string(nil), args...)
	}
}

// WithName sets a display name. It defaults to the last segment of the URL.
func WithName(name string) DescriptorOption {
	return func(d *Descriptor) {
		d.Name = name
	}
}

// NewDescriptor creates a Descriptor for url with paths derived under baseDir:
//
//	<baseDir>/repos/<key>       working copy
//	<baseDir>/locks/<key>.lock  lock file
//
// where key is the normalized URL (github.com/org/repo). Both paths come from
// the same key, so distinct working copies always get distinct lock files.
//
// Example:
//
//	d := git.NewDescriptor("https://github.com/org/repo.git", "/var/lib/reposync",
//	    git.WithCloneArgs("--depth", "1"))
//	// d.Path     == /var/lib/reposync/repos/github.com/org/repo
//	// d.LockFile == /var/lib/reposync/locks/github.com/org/repo.lock
func NewDescriptor(url, baseDir string, opts ...DescriptorOption) *Descriptor {
	d := &Descriptor{URL: url}
	d.Derive(baseDir)

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Derive fills Name, Path and LockFile from URL and baseDir when they are
// empty. Fields that are already set are left alone.
func (d *Descriptor) Derive(baseDir string) {
	key := normalizeURL(d.URL)
	if key == "" {
		return
	}

	if d.Name == "" {
		d.Name = key[strings.LastIndex(key, "/")+1:]
	}
	if d.Path == "" && baseDir != "" {
		d.Path = filepath.Join(baseDir, "repos", filepath.FromSlash(key))
	}
	if d.LockFile == "" && baseDir != "" {
		d.LockFile = filepath.Join(baseDir, "locks", filepath.FromSlash(key)+".lock")
	}
}

// Validate checks that the descriptor can be synced.
func (d *Descriptor) Validate() error {
	switch {
	case d.URL == "":
		return invalid(d, "url", "repository url is required")
	case d.Path == "":
		return invalid(d, "path", "working copy path is required")
	case d.LockFile == "":
		return invalid(d, "lock_file", "lock file path is required")
	}

	if within(d.Path, d.LockFile) {
		err := invalid(d, "lock_file", "lock file must not be inside the working copy")
		return errors.WithContext(err, "path", d.Path)
	}

	return nil
}

func (d *Descriptor) CloneFrom() string { return d.URL }
func (d *Descriptor) CloneTo() string { return d.Path }
func (d *Descriptor) ExtraCloneArgs() []string { return d.CloneArgs }
func (d *Descriptor) LockPath() string { return d.LockFile }

func invalid(d *Descriptor, field, message string) error {
	err := errors.New(errors.CodeInvalidConfig, message)
	return errors.WithContextMap(err, map[string]interface{}{
		"field": field,
		"name":  d.Name,
	})
}

// within reports whether target is dir or lies beneath it.
func within(dir, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
