package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/reposync/errors"
	"github.com/jmgilman/reposync/git"
)

// settings are the process-level knobs. Environment variables provide the
// defaults and command line flags override them.
type settings struct {
	Config      string `env:"REPOSYNC_CONFIG,default=reposync.yaml"`
	BaseDir     string `env:"REPOSYNC_BASE_DIR"`
	Git         string `env:"REPOSYNC_GIT,default=git"`
	LogLevel    string `env:"REPOSYNC_LOG_LEVEL,default=info"`
	Parallel    int    `env:"REPOSYNC_PARALLEL,default=4"`
	MetricsFile string `env:"REPOSYNC_METRICS_FILE"`
}

func loadSettings(ctx context.Context, lookuper envconfig.Lookuper) (settings, error) {
	var s settings
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return s, errors.Wrap(err, errors.CodeInvalidConfig, "invalid environment")
	}
	return s, nil
}

// fileConfig is the on-disk repository list.
type fileConfig struct {
	BaseDir      string            `yaml:"base_dir"`
	Repositories []*git.Descriptor `yaml:"repositories"`
}

// inventory is the validated set of repositories, in file order.
type inventory struct {
	repos  []*git.Descriptor
	byName map[string]*git.Descriptor
}

// loadInventory reads path and derives missing paths under baseDir. A
// non-empty baseDir overrides base_dir from the file; relative paths in the
// file are resolved against the file's directory, so every path in the
// inventory is absolute.
func loadInventory(path, baseDir string) (*inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.CodeInvalidConfig
		if os.IsNotExist(err) {
			code = errors.CodeNotFound
		}
		return nil, errors.WithContext(errors.Wrap(err, code, "failed to read config"), "path", path)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WithContext(errors.Wrap(err, errors.CodeInvalidConfig, "failed to parse config"), "path", path)
	}

	if baseDir == "" {
		baseDir = cfg.BaseDir
	}
	if baseDir == "" {
		err := errors.New(errors.CodeInvalidConfig, "base_dir is required")
		return nil, errors.WithContext(err, "path", path)
	}

	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.WithContext(errors.Wrap(err, errors.CodeInvalidConfig, "failed to resolve config directory"), "path", path)
	}
	inv := &inventory{byName: make(map[string]*git.Descriptor)}
	for _, d := range cfg.Repositories {
		if d == nil {
			continue
		}
		d.Path = resolve(root, d.Path)
		d.LockFile = resolve(root, d.LockFile)
		d.Derive(resolve(root, baseDir))
		inv.repos = append(inv.repos, d)
	}

	if err := inv.validate(); err != nil {
		return nil, errors.WithContext(err, "config", path)
	}
	return inv, nil
}

func (inv *inventory) validate() error {
	paths := make(map[string]string)
	locks := make(map[string]string)

	for _, d := range inv.repos {
		if err := d.Validate(); err != nil {
			return err
		}

		if _, ok := inv.byName[d.Name]; ok {
			return conflict("duplicate repository name", d.Name, "name", d.Name)
		}
		inv.byName[d.Name] = d

		path := filepath.Clean(d.Path)
		if other, ok := paths[path]; ok {
			return conflict("repositories share a working copy", d.Name, "other", other)
		}
		paths[path] = d.Name

		lock := filepath.Clean(d.LockFile)
		if other, ok := locks[lock]; ok {
			return conflict("repositories share a lock file", d.Name, "other", other)
		}
		locks[lock] = d.Name
	}

	return nil
}

// lookup resolves names to descriptors. all selects every repository.
func (inv *inventory) lookup(names []string, all bool) ([]*git.Descriptor, error) {
	if all {
		if len(names) > 0 {
			return nil, errors.New(errors.CodeInvalidInput, "--all cannot be combined with repository names")
		}
		return inv.repos, nil
	}
	if len(names) == 0 {
		return nil, errors.New(errors.CodeInvalidInput, "name at least one repository or pass --all")
	}

	out := make([]*git.Descriptor, 0, len(names))
	for _, name := range names {
		d, ok := inv.byName[name]
		if !ok {
			err := errors.Newf(errors.CodeNotFound, "unknown repository %q", name)
			return nil, errors.WithContext(err, "name", name)
		}
		out = append(out, d)
	}
	return out, nil
}

func conflict(message, name, key string, value interface{}) error {
	err := errors.New(errors.CodeInvalidConfig, message)
	return errors.WithContextMap(err, map[string]interface{}{"name": name, key: value})
}

func resolve(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
