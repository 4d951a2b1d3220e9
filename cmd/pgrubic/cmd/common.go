package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/bolajiwahab/pgrubic-sub001/internal/cache"
	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/discovery"
	"github.com/bolajiwahab/pgrubic-sub001/internal/version"
)

// Exit codes
const (
	ExitSuccess     = 0 // Clean, or violations below the fail-level threshold
	ExitViolations  = 1 // Violations at or above fail-level, or unformatted files
	ExitInternal    = 2 // Internal error, duplicate rule, or no file could be processed
	ExitConfigError = 3 // Invalid or unreadable configuration
)

// sharedFlags are accepted by both lint and format.
func sharedFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file (default: auto-discover)",
			Sources: cli.EnvVars(config.EnvConfigPath),
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Do not read or write the cache",
		},
		&cli.StringFlag{
			Name:    "cache-dir",
			Usage:   "Directory for cache files",
			Sources: cli.EnvVars("PGRUBIC_CACHE_DIR"),
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "Number of files processed concurrently (0 = number of CPUs)",
			Sources: cli.EnvVars("PGRUBIC_JOBS"),
		},
		&cli.StringSliceFlag{
			Name:    "exclude",
			Usage:   "Glob pattern to exclude files (can be repeated)",
			Sources: cli.EnvVars("PGRUBIC_LINT_EXCLUDE"),
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Usage:   "Log debug output to stderr",
			Sources: cli.EnvVars("PGRUBIC_VERBOSE"),
		},
	}
}

// sharedOverrides turns the shared flags into config overrides.
func sharedOverrides(cmd *cli.Command, overrides map[string]any) {
	if cmd.Bool("no-cache") {
		config.Set(overrides, "cache.enabled", false)
	}
	if cmd.IsSet("cache-dir") {
		config.Set(overrides, "cache.dir", cmd.String("cache-dir"))
	}
	if cmd.IsSet("jobs") {
		config.Set(overrides, "jobs", cmd.Int("jobs"))
	}
	if cmd.IsSet("exclude") {
		config.Set(overrides, "lint.exclude", cmd.StringSlice("exclude"))
	}
}

// inputsOf returns the command's path arguments, defaulting to the
// current directory.
func inputsOf(cmd *cli.Command) []string {
	if cmd.NArg() == 0 {
		return []string{"."}
	}
	return cmd.Args().Slice()
}

// loadConfig resolves the configuration for a run. Discovery starts at
// the first input; an explicit --config wins.
func loadConfig(cmd *cli.Command, inputs []string, overrides map[string]any) (*config.Config, error) {
	target := inputs[0]
	if target == discovery.StdinPath {
		target = "."
	}
	cfg, err := config.LoadWithOverrides(target, cmd.String("config"), overrides)
	if err != nil {
		var cerr *config.Error
		if errors.As(err, &cerr) {
			return nil, cli.Exit(fmt.Sprintf("Error: %v", err), ExitConfigError)
		}
		return nil, cli.Exit(fmt.Sprintf("Error: %v", err), ExitInternal)
	}
	return cfg, nil
}

// openCache opens the namespace cache, or returns nil when caching is
// disabled or the cache directory is unusable.
func openCache(cfg *config.Config, namespace string, log *logrus.Entry) *cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	fp, err := cfg.Fingerprint()
	if err != nil {
		log.WithError(err).Warn("cannot fingerprint config, cache disabled")
		return nil
	}
	c, err := cache.Open(cfg.Cache.Dir, namespace, version.RawVersion(), fp, cache.WithLogger(log))
	if err != nil {
		log.WithError(err).Warn("cannot open cache, cache disabled")
		return nil
	}
	return c
}

func flushCache(c *cache.Cache, log *logrus.Entry) {
	if c == nil {
		return
	}
	if err := c.Flush(); err != nil {
		log.WithError(err).Warn("cannot write cache")
	}
}

func readStdin() ([]byte, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// exit converts an exit code into the command's return value.
func exit(code int) error {
	if code == ExitSuccess {
		return nil
	}
	return cli.Exit("", code)
}

// reportNoFilesFound warns that discovery matched nothing.
func reportNoFilesFound(log *logrus.Entry, inputs []string) {
	log.WithField("inputs", inputs).Warn("no SQL files found")
}
