package git

import (
	"context"
	"strings"

	"github.com/jmgilman/reposync/exec"
)

var cleanSteps = [][]string{
	{"am", "--abort"},
	{"merge", "--abort"},
	{"reset", "--hard"},
}

// Clean aborts any in-progress am or merge and hard-resets the working copy.
//
// Each step runs regardless of how the previous one exited, and unsuccessful
// exits are ignored: aborting when nothing is in progress fails, which is the
// normal case. Only CodeLockFailed, CodeSpawnFailed and CodeCanceled are
// returned; once ctx is done no further step is started.
func (s *Syncer) Clean(ctx context.Context, repo Repo) (err error) {
	defer func() { s.metrics.record(opClean, err) }()

	l, err := s.acquire(ctx, opClean, repo)
	if err != nil {
		return err
	}
	defer l.Release()

	log := logger(ctx, opClean, repo)
	for _, step := range cleanSteps {
		if err := ctx.Err(); err != nil {
			return spawnError(ctx, opClean, err, append([]string{s.binary}, step...))
		}
		result, err := s.command(ctx, repo.CloneTo()).Run(step...)
		if exec.IsStartFailure(err) {
			return spawnError(ctx, opClean, err, append([]string{s.binary}, step...))
		}
		if err != nil {
			log.Debug("ignoring unsuccessful clean step",
				"step", strings.Join(step, " "),
				"exit_code", exitCode(err, result))
		}
	}
	l.Release()

	return nil
}
