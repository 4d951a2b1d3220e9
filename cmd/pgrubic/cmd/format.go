package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/bolajiwahab/pgrubic-sub001/internal/cache"
	"github.com/bolajiwahab/pgrubic-sub001/internal/discovery"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fileval"
	"github.com/bolajiwahab/pgrubic-sub001/internal/format"
	"github.com/bolajiwahab/pgrubic-sub001/internal/segment"
)

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Format SQL file(s)",
		ArgsUsage: "[PATH...]",
		Flags: append(sharedFlags(),
			&cli.BoolFlag{
				Name:  "check",
				Usage: "Do not write files; exit 1 if any file would be reformatted",
			},
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "Do not write files; print a unified diff and exit 1 on differences",
			},
		),
		Action: runFormat,
	}
}

func runFormat(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd.Bool("verbose"))
	inputs := inputsOf(cmd)

	overrides := make(map[string]any)
	sharedOverrides(cmd, overrides)
	cfg, err := loadConfig(cmd, inputs, overrides)
	if err != nil {
		return err
	}

	files, err := discovery.Discover(inputs, discovery.Options{
		Patterns:        cfg.Lint.Include,
		ExcludePatterns: cfg.Lint.Exclude,
	})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), ExitInternal)
	}
	if len(files) == 0 {
		reportNoFilesFound(log, inputs)
		return nil
	}

	check, diff := cmd.Bool("check"), cmd.Bool("diff")
	c := openCache(cfg, cache.NamespaceFormat, log)
	f := format.New(format.Options{
		Config: cfg,
		Write:  !check && !diff,
		Cache:  c,
		Logger: log,
	})

	results, err := formatAll(ctx, f, files)
	flushCache(c, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		return cli.Exit(fmt.Sprintf("Error: %v", err), ExitInternal)
	}

	return exit(summarizeFormat(os.Stdout, log, results, check, diff))
}

// formatAll formats discovered files. Standard input is formatted to
// standard output.
func formatAll(ctx context.Context, f *format.Formatter, files []discovery.DiscoveredFile) ([]*format.Result, error) {
	paths := make([]string, 0, len(files))
	var results []*format.Result
	for _, file := range files {
		if file.Path == discovery.StdinPath {
			results = append(results, formatStdin(f))
			continue
		}
		paths = append(paths, file.Path)
	}
	fileResults, err := f.FormatFiles(ctx, paths)
	return append(results, fileResults...), err
}

func formatStdin(f *format.Formatter) *format.Result {
	res := &format.Result{Path: discovery.StdinPath}
	content, err := readStdin()
	if err != nil {
		res.Err = err
		return res
	}
	res.Source = content
	if res.Err = fileval.Check(discovery.StdinPath, content); res.Err != nil {
		return res
	}
	res.Formatted, res.Err = format.Source(string(content), f.Options(discovery.StdinPath))
	return res
}

// summarizeFormat prints diffs and errors and returns the exit code.
func summarizeFormat(w io.Writer, log *logrus.Entry, results []*format.Result, check, diff bool) int {
	var changed, failed, written int
	for _, res := range results {
		fileLog := log.WithField("file", res.Path)
		if res.Err != nil {
			failed++
			var perr *segment.SQLParseError
			if errors.As(res.Err, &perr) {
				fileLog.WithField("offset", perr.Offset).Error(perr.Err)
			} else {
				fileLog.WithError(res.Err).Error("cannot format file")
			}
			continue
		}

		if res.Path == discovery.StdinPath && !check && !diff {
			_, _ = io.WriteString(w, res.Formatted)
			continue
		}
		if !res.Changed() {
			continue
		}
		changed++
		if res.Written {
			written++
		}

		switch {
		case diff:
			d, err := format.Diff(res.Path, string(res.Source), res.Formatted)
			if err != nil {
				fileLog.WithError(err).Error("cannot diff file")
				failed++
				continue
			}
			_, _ = io.WriteString(w, d)
		case check:
			_, _ = fmt.Fprintf(w, "Would reformat: %s\n", res.Path)
		}
	}

	switch {
	case check || diff:
		_, _ = fmt.Fprintf(w, "%s would be reformatted, %s already formatted\n",
			plural(changed, "file"), plural(len(results)-changed-failed, "file"))
	case written > 0:
		log.Infof("%s reformatted", plural(written, "file"))
	}

	switch {
	case failed > 0:
		return ExitInternal
	case (check || diff) && changed > 0:
		return ExitViolations
	}
	return ExitSuccess
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
