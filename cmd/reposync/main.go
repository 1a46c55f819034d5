// Command reposync keeps local working copies of git repositories in sync.
//
// Repositories are listed in a YAML file; every operation on a repository
// holds that repository's lock file, so any number of reposync processes can
// share a base directory safely.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/jmgilman/reposync/errors"
	"github.com/jmgilman/reposync/git"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], envconfig.OsLookuper(), os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// app carries state shared by the subcommands of one invocation.
type app struct {
	settings settings
	json     bool

	stdout io.Writer
	stderr io.Writer

	// extra Syncer options, used by tests to substitute git
	syncerOpts []git.Option

	inventory *inventory
	syncer    *git.Syncer
	registry  *prometheus.Registry
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, lookuper envconfig.Lookuper, stdout, stderr io.Writer, opts ...git.Option) int {
	a := &app{stdout: stdout, stderr: stderr, syncerOpts: opts}

	s, err := loadSettings(ctx, lookuper)
	if err != nil {
		a.printError(err)
		return 1
	}
	a.settings = s

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err = root.ExecuteContext(ctx)
	if werr := a.writeMetrics(); err == nil {
		err = werr
	}
	if err != nil {
		a.printError(err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "reposync",
		Short: "Keep local git working copies in sync under cross-process locks",
		Long: `reposync clones, fetches, cleans and checks out git repositories listed in a
config file. Each operation holds the repository's lock file, so concurrent
reposync processes never touch the same working copy at once.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	flags := root.PersistentFlags()
	flags.StringVarP(&a.settings.Config, "config", "c", a.settings.Config, "repository config file (REPOSYNC_CONFIG)")
	flags.StringVar(&a.settings.BaseDir, "base-dir", a.settings.BaseDir, "directory holding working copies and locks (REPOSYNC_BASE_DIR)")
	flags.StringVar(&a.settings.Git, "git", a.settings.Git, "git executable (REPOSYNC_GIT)")
	flags.StringVar(&a.settings.LogLevel, "log-level", a.settings.LogLevel, "debug, info, warn or error (REPOSYNC_LOG_LEVEL)")
	flags.StringVar(&a.settings.MetricsFile, "metrics-file", a.settings.MetricsFile, "write Prometheus metrics to this file on exit (REPOSYNC_METRICS_FILE)")
	flags.IntVarP(&a.settings.Parallel, "parallel", "p", a.settings.Parallel, "repositories processed at once with --all (REPOSYNC_PARALLEL)")
	flags.BoolVar(&a.json, "json", false, "print results and errors as JSON")

	root.AddCommand(
		a.eachCommand("clone", "Clone repositories that are not present yet", (*git.Syncer).CloneRepo),
		a.eachCommand("fetch", "Fetch origin in existing working copies", (*git.Syncer).FetchRepo),
		a.eachCommand("clean", "Abort in-progress am/merge and hard-reset working copies", (*git.Syncer).Clean),
		a.checkoutCommand(),
		a.syncCommand(),
		a.statusCommand(),
	)

	return root
}

// setup configures logging, loads the inventory and builds the Syncer.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(a.settings.LogLevel)); err != nil {
		err := errors.Wrapf(err, errors.CodeInvalidInput, "invalid log level %q", a.settings.LogLevel)
		return errors.WithContext(err, "log_level", a.settings.LogLevel)
	}
	if a.settings.Parallel < 1 {
		err := errors.New(errors.CodeInvalidInput, "parallel must be at least 1")
		return errors.WithContext(err, "parallel", a.settings.Parallel)
	}

	log := clog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	ctx := clog.WithLogger(cmd.Context(), log)
	cmd.SetContext(ctx)

	inv, err := loadInventory(a.settings.Config, a.settings.BaseDir)
	if err != nil {
		return err
	}
	a.inventory = inv

	a.registry = prometheus.NewRegistry()
	opts := []git.Option{
		git.WithGitBinary(a.settings.Git),
		git.WithMetrics(git.NewMetrics(a.registry)),
		git.WithEnv(map[string]string{"GIT_TERMINAL_PROMPT": "0"}),
	}
	syncer, err := git.New(append(opts, a.syncerOpts...)...)
	if err != nil {
		return err
	}
	a.syncer = syncer

	log.Debug("loaded config", "path", a.settings.Config, "repositories", len(inv.repos))
	return nil
}

// writeMetrics writes the gathered metrics in the node exporter textfile
// format when a metrics file is configured.
func (a *app) writeMetrics() error {
	if a.registry == nil || a.settings.MetricsFile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.settings.MetricsFile, a.registry); err != nil {
		err := errors.Wrap(err, errors.CodeInternal, "failed to write metrics")
		return errors.WithContext(err, "path", a.settings.MetricsFile)
	}
	return nil
}
