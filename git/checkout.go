package git

import (
	"context"

	"github.com/jmgilman/reposync/exec"
)

// Checkout runs "git checkout <ref>" in repo's working copy. ref is passed to
// git as is.
// Returns CodeLockFailed, CodeSpawnFailed, or CodeCheckoutFailed when git
// exits unsuccessfully, for example on an unknown ref.
func (s *Syncer) Checkout(ctx context.Context, repo Repo, ref string) (err error) {
	defer func() { s.metrics.record(opCheckout, err) }()

	l, err := s.acquire(ctx, opCheckout, repo)
	if err != nil {
		return err
	}
	defer l.Release()

	logger(ctx, opCheckout, repo).Info("checking out", "ref", ref)
	result, err := s.command(ctx, repo.CloneTo()).Run("checkout", ref)
	if exec.IsStartFailure(err) {
		return spawnError(ctx, opCheckout, err, []string{s.binary, "checkout", ref})
	}
	l.Release()

	return operationError(ctx, opCheckout, err, result)
}
