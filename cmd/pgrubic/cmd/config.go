package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect configuration",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Print the effective configuration as TOML",
				ArgsUsage: "[PATH]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to config file (default: auto-discover)",
					},
				},
				Action: runConfigShow,
			},
			{
				Name:      "path",
				Usage:     "Print the config file that applies to PATH",
				ArgsUsage: "[PATH]",
				Action:    runConfigPath,
			},
		},
	}
}

func runConfigShow(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd, inputsOf(cmd), nil)
	if err != nil {
		return err
	}
	data, err := cfg.TOML()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), ExitInternal)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runConfigPath(_ context.Context, cmd *cli.Command) error {
	path := config.Discover(inputsOf(cmd)[0])
	if path == "" {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults")
		return nil
	}
	fmt.Println(path)
	return nil
}
