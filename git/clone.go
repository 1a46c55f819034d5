package git

import (
	"context"

	"github.com/jmgilman/reposync/exec"
)

// CloneRepo clones repo into its working copy path unless a directory already
// exists there:
//
//	git clone <extra clone args...> <clone from> <clone to>
//
// An existing directory is not inspected; whatever it holds is treated as the
// working copy. Returns CodeLockFailed, CodeSpawnFailed, or CodeCloneFailed
// when git exits unsuccessfully.
func (s *Syncer) CloneRepo(ctx context.Context, repo Repo) (err error) {
	defer func() { s.metrics.record(opClone, err) }()

	l, err := s.acquire(ctx, opClone, repo)
	if err != nil {
		return err
	}
	defer l.Release()

	log := logger(ctx, opClone, repo)
	if s.isDir(repo.CloneTo()) {
		log.Debug("working copy exists, skipping clone")
		return nil
	}

	extra := repo.ExtraCloneArgs()
	args := make([]string, 0, len(extra)+3)
	args = append(args, "clone")
	args = append(args, extra...)
	args = append(args, repo.CloneFrom(), repo.CloneTo())

	log.Info("cloning repository", "from", repo.CloneFrom())
	result, err := s.command(ctx, "").Run(args...)
	if exec.IsStartFailure(err) {
		return spawnError(ctx, opClone, err, append([]string{s.binary}, args...))
	}
	l.Release()

	return operationError(ctx, opClone, err, result)
}
