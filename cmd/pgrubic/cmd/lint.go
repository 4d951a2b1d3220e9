package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/bolajiwahab/pgrubic-sub001/internal/cache"
	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/discovery"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fix"
	"github.com/bolajiwahab/pgrubic-sub001/internal/linter"
	"github.com/bolajiwahab/pgrubic-sub001/internal/processor"
	"github.com/bolajiwahab/pgrubic-sub001/internal/reporter"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/version"
)

const toolURI = "https://github.com/bolajiwahab/pgrubic"

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Lint SQL file(s) for issues",
		ArgsUsage: "[PATH...]",
		Flags: append(sharedFlags(),
			&cli.BoolFlag{
				Name:    "fix",
				Usage:   "Apply fixes and write them back to the files",
				Sources: cli.EnvVars("PGRUBIC_LINT_FIX"),
			},
			&cli.StringSliceFlag{
				Name:    "select",
				Usage:   "Enable rules matching a code glob (can be repeated, e.g. GN, US00?)",
				Sources: cli.EnvVars("PGRUBIC_LINT_SELECT"),
			},
			&cli.StringSliceFlag{
				Name:    "ignore",
				Usage:   "Disable rules matching a code glob (can be repeated)",
				Sources: cli.EnvVars("PGRUBIC_LINT_IGNORE"),
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, jsonl, sarif, github-actions, markdown",
				Sources: cli.EnvVars("PGRUBIC_OUTPUT_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path: stdout, stderr, or file path",
				Sources: cli.EnvVars("PGRUBIC_OUTPUT_PATH"),
			},
			&cli.StringFlag{
				Name:    "fail-level",
				Usage:   "Minimum severity to cause non-zero exit: error, warning, info, style, none",
				Sources: cli.EnvVars("PGRUBIC_OUTPUT_FAIL_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "show-source",
				Usage:   "Show source code snippets (default: true)",
				Value:   true,
				Sources: cli.EnvVars("PGRUBIC_OUTPUT_SHOW_SOURCE"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Re-lint when SQL files change",
			},
		),
		Action: runLint,
	}
}

// lintOverrides turns lint flags into config overrides.
func lintOverrides(cmd *cli.Command) map[string]any {
	overrides := make(map[string]any)
	sharedOverrides(cmd, overrides)

	if cmd.IsSet("fix") {
		config.Set(overrides, "lint.fix", cmd.Bool("fix"))
	}
	if cmd.IsSet("select") {
		config.Set(overrides, "lint.select", cmd.StringSlice("select"))
	}
	if cmd.IsSet("ignore") {
		config.Set(overrides, "lint.ignore", cmd.StringSlice("ignore"))
	}
	if cmd.IsSet("format") {
		config.Set(overrides, "output.format", cmd.String("format"))
	}
	if cmd.IsSet("output") {
		config.Set(overrides, "output.path", cmd.String("output"))
	}
	if cmd.IsSet("fail-level") {
		config.Set(overrides, "output.fail-level", cmd.String("fail-level"))
	}
	if cmd.IsSet("show-source") {
		config.Set(overrides, "output.show-source", cmd.Bool("show-source"))
	}
	return overrides
}

func runLint(ctx context.Context, cmd *cli.Command) error {
	log := newLogger(cmd.Bool("verbose"))
	inputs := inputsOf(cmd)

	cfg, err := loadConfig(cmd, inputs, lintOverrides(cmd))
	if err != nil {
		return err
	}

	if _, err := rules.LoadRules(cfg); err != nil {
		if errors.Is(err, rules.ErrDuplicateRule) {
			return cli.Exit(fmt.Sprintf("Error: %v", err), ExitInternal)
		}
		return cli.Exit(fmt.Sprintf("Error: load rules: %v", err), ExitInternal)
	}

	r := &lintRun{cfg: cfg, inputs: inputs, log: log, noColor: cmd.Bool("no-color")}
	code := r.run(ctx)

	if cmd.Bool("watch") {
		if slices.Contains(inputs, discovery.StdinPath) {
			return cli.Exit("Error: --watch cannot read from stdin", ExitConfigError)
		}
		return watch(ctx, log, inputs, func(ctx context.Context) { r.run(ctx) })
	}
	return exit(code)
}

// lintRun lints the inputs once per call.
type lintRun struct {
	cfg     *config.Config
	inputs  []string
	log     *logrus.Entry
	noColor bool
}

func (r *lintRun) run(ctx context.Context) int {
	files, err := discovery.Discover(r.inputs, discovery.Options{
		Patterns:        r.cfg.Lint.Include,
		ExcludePatterns: r.cfg.Lint.Exclude,
	})
	if err != nil {
		r.log.WithError(err).Error("discovery failed")
		return ExitInternal
	}
	if len(files) == 0 {
		reportNoFilesFound(r.log, r.inputs)
		return ExitSuccess
	}

	c := openCache(r.cfg, cache.NamespaceLint, r.log)
	logStale(c, files, r.log)
	engine := linter.New(linter.Options{
		Config: r.cfg,
		Cache:  c,
		Logger: r.log,
	})

	results, err := lintAll(ctx, engine, files)
	flushCache(c, r.log)
	if err != nil {
		if linter.IsCanceled(err) {
			r.log.Warn("interrupted, reporting files linted so far")
		} else {
			r.log.WithError(err).Error("lint failed")
			return ExitInternal
		}
	}

	res := collect(results, r.log)
	if res.failed > 0 && res.failed == len(results) {
		return ExitInternal
	}

	if err := r.report(res, engine.RuleCount()); err != nil {
		r.log.WithError(err).Error("cannot write report")
		return ExitInternal
	}
	return determineExitCode(res.violations, r.cfg.Output.FailLevel)
}

// logStale logs how many files the cache cannot answer for by stat alone.
func logStale(c *cache.Cache, files []discovery.DiscoveredFile, log *logrus.Entry) {
	if c == nil {
		return
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if f.Path != discovery.StdinPath {
			paths = append(paths, f.Path)
		}
	}
	log.WithField("cache", c.Path()).Debugf("%d of %d files changed since the last run",
		len(c.FilterSources(paths)), len(paths))
}

// lintAll lints discovered files, reading "-" from stdin. Results keep
// discovery order.
func lintAll(ctx context.Context, engine *linter.Engine, files []discovery.DiscoveredFile) ([]*linter.Result, error) {
	paths := make([]string, 0, len(files))
	stdinAt := -1
	for i, f := range files {
		if f.Path == discovery.StdinPath {
			stdinAt = i
			continue
		}
		paths = append(paths, f.Path)
	}

	results, err := engine.LintFiles(ctx, paths)
	if err != nil || stdinAt < 0 {
		return results, err
	}
	return slices.Insert(results, stdinAt, lintStdin(engine)), nil
}

// lintStdin lints standard input. Fixed content is printed to stdout
// since there is no file to write it to.
func lintStdin(engine *linter.Engine) *linter.Result {
	content, err := readStdin()
	if err != nil {
		return &linter.Result{Path: discovery.StdinPath, Err: err}
	}
	res, err := engine.LintSource(discovery.StdinPath, content)
	if err != nil {
		return &linter.Result{Path: discovery.StdinPath, Err: err}
	}
	if engine.FixEnabled() {
		out := res.Source
		if res.FixedSource != nil {
			out = res.FixedSource
		}
		_, _ = os.Stdout.Write(out)
	}
	return res
}

// lintResults holds the aggregated results of linting all discovered files.
type lintResults struct {
	violations  []rules.Violation
	fileSources map[string][]byte
	fixes       int
	failed      int
}

// collect aggregates per-file results. Violations that were fixed are
// counted, not reported.
func collect(results []*linter.Result, log *logrus.Entry) *lintResults {
	res := &lintResults{fileSources: make(map[string][]byte, len(results))}
	var fixes fix.Summary
	for _, r := range results {
		if r.Err != nil {
			res.failed++
			log.WithField("file", r.Path).WithError(r.Err).Error("cannot lint file")
			continue
		}
		res.fileSources[r.Path] = r.Source
		fixes.Add(r.Change)
		for _, v := range r.Violations {
			if v.IsFixApplied {
				res.fixes++
				continue
			}
			res.violations = append(res.violations, v)
		}
	}

	for _, skipped := range fixes.Skipped {
		log.WithFields(logrus.Fields{
			"rule":   skipped.RuleCode,
			"file":   skipped.Location.File,
			"line":   skipped.Location.Start.Line,
			"reason": skipped.Reason,
		}).Warn("fix discarded")
	}
	if fixes.Modified > 0 {
		log.WithField("files", fixes.Modified).Debugf("applied %d fixes", fixes.Applied)
	}
	return res
}

func (r *lintRun) report(res *lintResults, ruleCount int) error {
	format, err := reporter.ParseFormat(r.cfg.Output.Format)
	if err != nil {
		return err
	}

	path := r.cfg.Output.Path
	if _, ok := res.fileSources[discovery.StdinPath]; ok && r.cfg.Lint.Fix && (path == "" || path == "stdout") {
		// Stdout carries the fixed SQL.
		path = "stderr"
	}
	writer, closeWriter, err := reporter.GetWriter(path)
	if err != nil {
		return err
	}
	defer func() { _ = closeWriter() }()

	rep, err := reporter.New(reporter.Options{
		Format:      format,
		Writer:      writer,
		Color:       colorOption(r.noColor, writer),
		ShowSource:  r.cfg.Output.ShowSource,
		ToolName:    "pgrubic",
		ToolVersion: version.RawVersion(),
		ToolURI:     toolURI,
	})
	if err != nil {
		return err
	}
	violations := processor.Report().Process(res.violations, processor.NewContext(r.cfg, res.fileSources))
	return rep.Report(violations, res.fileSources, reporter.ReportMetadata{
		FilesScanned: len(res.fileSources),
		RulesEnabled: ruleCount,
		FixesApplied: res.fixes,
	})
}

// colorOption returns the color override for a report writer, or nil for
// automatic detection. Files and pipes never get color.
func colorOption(noColor bool, w io.Writer) *bool {
	off := false
	if noColor {
		return &off
	}
	if f, ok := w.(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return &off
	}
	return nil
}

// determineExitCode returns the appropriate exit code based on violations and fail-level.
func determineExitCode(violations []rules.Violation, failLevel string) int {
	// "none" means never fail due to violations
	if failLevel == "none" {
		return ExitSuccess
	}

	threshold, err := parseFailLevel(failLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --fail-level %q\n", failLevel)
		return ExitConfigError
	}

	for _, v := range violations {
		if v.Severity.IsAtLeast(threshold) {
			return ExitViolations
		}
	}
	return ExitSuccess
}

// parseFailLevel parses a fail-level string to a Severity.
func parseFailLevel(level string) (rules.Severity, error) {
	if level == "" {
		return rules.SeverityStyle, nil
	}
	return rules.ParseSeverity(level)
}
