package git

import (
	"context"

	"github.com/jmgilman/reposync/exec"
)

// FetchRepo runs "git fetch origin" in repo's working copy.
// Returns CodeLockFailed, CodeSpawnFailed, or CodeFetchFailed when git exits
// unsuccessfully.
func (s *Syncer) FetchRepo(ctx context.Context, repo Repo) (err error) {
	defer func() { s.metrics.record(opFetch, err) }()

	l, err := s.acquire(ctx, opFetch, repo)
	if err != nil {
		return err
	}
	defer l.Release()

	logger(ctx, opFetch, repo).Info("fetching origin")
	result, err := s.command(ctx, repo.CloneTo()).Run("fetch", "origin")
	if exec.IsStartFailure(err) {
		return spawnError(ctx, opFetch, err, []string{s.binary, "fetch", "origin"})
	}
	l.Release()

	return operationError(ctx, opFetch, err, result)
}
