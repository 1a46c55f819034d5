package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/reposync/errors"
	"github.com/jmgilman/reposync/git"
)

type repoFunc func(s *git.Syncer, ctx context.Context, repo git.Repo) error

// eachCommand builds a command that applies op to the named repositories, or
// to every repository with --all.
func (a *app) eachCommand(name, short string, op repoFunc) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   name + " [name...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := a.inventory.lookup(args, all)
			if err != nil {
				return err
			}
			return a.forEach(cmd.Context(), repos, func(ctx context.Context, d *git.Descriptor) error {
				return op(a.syncer, ctx, d)
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "apply to every configured repository")
	return cmd
}

func (a *app) checkoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <name> <ref>",
		Short: "Check out a branch, tag or commit in a working copy",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := a.inventory.lookup(args[:1], false)
			if err != nil {
				return err
			}
			return a.syncer.Checkout(cmd.Context(), repos[0], args[1])
		},
	}
}

func (a *app) syncCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "sync [name] [ref]",
		Short: "Clone if needed, fetch, clean, then check out ref",
		Long: `sync runs clone, fetch, clean and checkout in turn. Without a ref the
checkout step is skipped. With --all every repository is synced and no ref
may be given.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref string
			names := args
			if !all && len(args) == 2 {
				names, ref = args[:1], args[1]
			}
			repos, err := a.inventory.lookup(names, all)
			if err != nil {
				return err
			}
			return a.forEach(cmd.Context(), repos, func(ctx context.Context, d *git.Descriptor) error {
				return a.syncer.Sync(ctx, d, ref)
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "sync every configured repository")
	return cmd
}

// repoStatus is one row of the status command.
type repoStatus struct {
	Name   string        `json:"name"`
	Path   string        `json:"path"`
	Locked bool          `json:"locked"`
	Head   *git.HeadInfo `json:"head,omitempty"`
	Error  string        `json:"error,omitempty"`
}

func (a *app) statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status [name...]",
		Short: "Show lock state and checked-out commit without waiting on locks",
		RunE: func(cmd *cobra.Command, args []string) error {
			repos, err := a.inventory.lookup(args, len(args) == 0)
			if err != nil {
				return err
			}

			rows := make([]repoStatus, 0, len(repos))
			for _, d := range repos {
				row, err := a.status(cmd.Context(), d)
				if err != nil {
					return err
				}
				rows = append(rows, row)
			}
			return a.printStatus(rows)
		},
	}
}

// status reports on d. A repository whose lock is held is reported as locked
// and its HEAD is not read, so status never waits.
func (a *app) status(ctx context.Context, d *git.Descriptor) (repoStatus, error) {
	row := repoStatus{Name: d.Name, Path: d.CloneTo()}

	head, ok, err := a.syncer.TryHead(ctx, d)
	switch {
	case !ok && err == nil:
		row.Locked = true
	case err == nil:
		row.Head = head
	case errors.HasCode(err, errors.CodeLockFailed):
		return row, err
	case errors.HasCode(err, errors.CodeNotFound):
		row.Error = "not cloned"
	default:
		row.Error = err.Error()
	}
	return row, nil
}

func (a *app) printStatus(rows []repoStatus) error {
	if a.json {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLOCK\tBRANCH\tCOMMIT\tPATH")
	for _, r := range rows {
		lockState, branch, commit := "free", "-", "-"
		if r.Locked {
			lockState = "held"
		}
		if r.Head != nil {
			commit = r.Head.Hash[:min(12, len(r.Head.Hash))]
			branch = r.Head.Branch
			if r.Head.Detached() {
				branch = "(detached)"
			}
		} else if r.Error != "" {
			commit = r.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.Name, lockState, branch, commit, r.Path)
	}
	return w.Flush()
}

// forEach runs fn for every repository, at most settings.Parallel at a time.
// Every repository is attempted; failures are logged as they happen and the
// first one is returned.
func (a *app) forEach(ctx context.Context, repos []*git.Descriptor, fn func(context.Context, *git.Descriptor) error) error {
	if len(repos) == 1 {
		return fn(ctx, repos[0])
	}

	var g errgroup.Group
	g.SetLimit(a.settings.Parallel)

	for _, d := range repos {
		g.Go(func() error {
			ctx := clog.WithLogger(ctx, clog.FromContext(ctx).With("repository", d.Name))
			if err := fn(ctx, d); err != nil {
				clog.FromContext(ctx).Error("repository failed", "error", err, "retryable", errors.IsRetryable(err))
				return errors.WithContext(err, "repository", d.Name)
			}
			return nil
		})
	}

	return g.Wait()
}

func (a *app) printError(err error) {
	if a.json {
		enc := json.NewEncoder(a.stderr)
		_ = enc.Encode(errors.ToJSON(err))
		return
	}
	fmt.Fprintln(a.stderr, err.Error())
}
