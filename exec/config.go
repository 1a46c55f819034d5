package exec

// config holds the environment-related configuration for command execution.
// Global settings are set at creation time; local settings apply to one run.
type config struct {
	globalEnv           map[string]string
	globalDir           string
	globalInheritEnv    bool
	globalDisableColors bool
	globalPassthrough   bool

	localEnv           map[string]string
	localDir           string
	localInheritEnv    *bool
	localDisableColors *bool
	localPassthrough   *bool
}

func newConfig() *config {
	return &config{
		globalEnv: make(map[string]string),
		localEnv:  make(map[string]string),
	}
}

// clone copies the global settings. Local settings are not carried over.
func (c *config) clone() *config {
	clone := &config{
		globalEnv:           make(map[string]string, len(c.globalEnv)),
		globalDir:           c.globalDir,
		globalInheritEnv:    c.globalInheritEnv,
		globalDisableColors: c.globalDisableColors,
		globalPassthrough:   c.globalPassthrough,
		localEnv:            make(map[string]string),
	}
	for k, v := range c.globalEnv {
		clone.globalEnv[k] = v
	}
	return clone
}

// effectiveEnv merges global and local variables; local wins.
func (c *config) effectiveEnv() map[string]string {
	env := make(map[string]string, len(c.globalEnv)+len(c.localEnv))
	for k, v := range c.globalEnv {
		env[k] = v
	}
	for k, v := range c.localEnv {
		env[k] = v
	}

	if c.effectiveDisableColors() {
		env["NO_COLOR"] = "1"
		env["TERM"] = "dumb"
		env["CLICOLOR"] = "0"
		env["CLICOLOR_FORCE"] = "0"
		env["FORCE_COLOR"] = "0"
	}

	return env
}

func (c *config) effectiveDir() string {
	if c.localDir != "" {
		return c.localDir
	}
	return c.globalDir
}

func (c *config) effectiveInheritEnv() bool {
	return pick(c.localInheritEnv, c.globalInheritEnv)
}

func (c *config) effectiveDisableColors() bool {
	return pick(c.localDisableColors, c.globalDisableColors)
}

func (c *config) effectivePassthrough() bool {
	return pick(c.localPassthrough, c.globalPassthrough)
}

// resetLocal clears per-run settings after each Run.
func (c *config) resetLocal() {
	c.localEnv = make(map[string]string)
	c.localDir = ""
	c.localInheritEnv = nil
	c.localDisableColors = nil
	c.localPassthrough = nil
}

func pick(local *bool, global bool) bool {
	if local != nil {
		return *local
	}
	return global
}

func boolPtr(v bool) *bool {
	return &v
}
