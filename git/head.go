package git

import (
	"context"

	"github.com/go-git/go-billy/v5"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/jmgilman/reposync/errors"
	"github.com/jmgilman/reposync/lock"
)

// HeadInfo describes what a working copy has checked out.
type HeadInfo struct {
	// Hash is the full commit hash HEAD resolves to.
	Hash string `json:"hash"`

	// Branch is the short branch name, or empty when HEAD is detached.
	Branch string `json:"branch,omitempty"`
}

// Detached reports whether HEAD points directly at a commit.
func (h *HeadInfo) Detached() bool {
	return h.Branch == ""
}

// Head reads repo's HEAD under the lock. The working copy is read with go-git
// through the Syncer's filesystem; no git process is started.
// Returns CodeNotFound when the working copy is missing, is not a repository,
// or has no commits.
func (s *Syncer) Head(ctx context.Context, repo Repo) (info *HeadInfo, err error) {
	defer func() { s.metrics.record(opHead, err) }()

	l, err := s.acquire(ctx, opHead, repo)
	if err != nil {
		return nil, err
	}
	defer l.Release()

	return s.head(repo)
}

// TryHead is Head without waiting: when another holder has repo's lock it
// returns ok == false and reads nothing.
func (s *Syncer) TryHead(ctx context.Context, repo Repo) (info *HeadInfo, ok bool, err error) {
	defer func() {
		if ok || err != nil {
			s.metrics.record(opHead, err)
		}
	}()

	l, ok, err := lock.TryAcquire(ctx, repo.LockPath())
	if err != nil {
		return nil, false, errors.WithContext(err, "operation", opHead)
	}
	if !ok {
		return nil, false, nil
	}
	defer l.Release()

	info, err = s.head(repo)
	return info, true, err
}

// head reads HEAD of repo's working copy. The caller holds the lock.
func (s *Syncer) head(repo Repo) (*HeadInfo, error) {
	r, err := openWorkingCopy(s.fs, repo.CloneTo())
	if err != nil {
		return nil, classifyOpenError(err, repo.CloneTo())
	}

	ref, err := r.Head()
	if err != nil {
		return nil, classifyOpenError(err, repo.CloneTo())
	}

	info := &HeadInfo{Hash: ref.Hash().String()}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, nil
}

// openWorkingCopy opens the non-bare repository at path on fs.
func openWorkingCopy(fs billy.Filesystem, path string) (*gogit.Repository, error) {
	path = absPath(path)
	if info, err := fs.Stat(path); err != nil || !info.IsDir() {
		return nil, gogit.ErrRepositoryNotExists
	}

	scoped, err := fs.Chroot(path)
	if err != nil {
		return nil, err
	}

	dotGit, err := scoped.Chroot(gogit.GitDirName)
	if err != nil {
		return nil, err
	}

	storage := filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault())
	return gogit.Open(storage, scoped)
}
