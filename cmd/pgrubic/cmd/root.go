package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/bolajiwahab/pgrubic-sub001/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "pgrubic",
		Usage:   "A linter and formatter for PostgreSQL",
		Version: version.Version(),
		Description: `pgrubic lints and formats PostgreSQL SQL files.

It checks migrations and schema files for unsafe operations, naming
conventions, type choices and other common mistakes, and can fix many
of them automatically.

Examples:
  pgrubic lint migrations/
  pgrubic lint --fix --select US,GN schema.sql
  pgrubic format --check .
  cat query.sql | pgrubic format -`,
		Commands: []*cli.Command{
			lintCommand(),
			formatCommand(),
			versionCommand(),
			configCommand(),
		},
	}
}

// Execute runs the CLI application. An interrupt cancels the run: files
// already being processed finish, no new ones are started.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewApp().Run(ctx, os.Args)
}

// newLogger returns the stderr logger for a command run.
func newLogger(verbose bool) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(log)
}
