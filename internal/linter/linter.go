// Package linter runs the rule engine over SQL files.
//
// The pipeline per file: cache lookup → comment stripping and statement
// segmentation → noqa extraction → per-statement parse and fix loop →
// suppression → divergence check → cache store.
package linter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bolajiwahab/pgrubic-sub001/internal/cache"
	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/directive"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fileval"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fix"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	_ "github.com/bolajiwahab/pgrubic-sub001/internal/rules/all" // Register all rules.
)

// MaxIterations bounds the fix loop of a single statement.
const MaxIterations = 25

// Options configures an Engine.
type Options struct {
	// Config is the resolved configuration. Nil means config.Default().
	Config *config.Config

	// Rules returns fresh rule instances for one file. Defaults to the
	// registered rules selected by Config.
	Rules func() ([]rules.Rule, error)

	// Fix enables auto-fixing in addition to Config.Lint.Fix.
	Fix bool

	// Cache is consulted before linting and updated after. Nil disables it.
	Cache *cache.Cache

	// Logger receives warnings such as malformed directives.
	Logger *logrus.Entry

	// OnParse is called every time a statement is handed to the parser.
	OnParse func()

	// Jobs bounds concurrent files in LintFiles. Zero means GOMAXPROCS.
	Jobs int
}

// Result is the outcome of linting one file.
type Result struct {
	// Path is the file path as given.
	Path string

	// Source is the content that was linted.
	Source []byte

	// Violations after suppression, including unused-noqa warnings.
	Violations []rules.Violation

	// Directives with their Used flags set. Nil for cache hits.
	Directives []directive.Directive

	// FixedSource is the fixed content, or nil when nothing was fixed.
	FixedSource []byte

	// Change describes the applied and skipped fixes.
	Change *fix.FileChange

	// FromCache is set when the result was replayed from the cache.
	FromCache bool

	// Err is set by LintFiles when the file could not be processed.
	Err error
}

// Engine lints SQL sources.
type Engine struct {
	cfg     *config.Config
	opts    Options
	fix     bool
	log     *logrus.Entry
	newRule func() ([]rules.Rule, error)
}

// New creates an engine.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	newRules := opts.Rules
	if newRules == nil {
		newRules = func() ([]rules.Rule, error) { return rules.LoadRules(cfg) }
	}
	return &Engine{
		cfg:     cfg,
		opts:    opts,
		fix:     opts.Fix || cfg.Lint.Fix,
		log:     log.WithField("component", "linter"),
		newRule: newRules,
	}
}

// FixEnabled reports whether the engine rewrites sources.
func (e *Engine) FixEnabled() bool {
	return e.fix
}

// RuleCount returns the number of rules a file is linted with.
func (e *Engine) RuleCount() int {
	set, err := e.newRule()
	if err != nil {
		return 0
	}
	return len(set)
}

// LintFile lints the file at path. When fixing is enabled and fixes were
// applied, the fixed content is written back to path.
func (e *Engine) LintFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stat := cache.StatOf(info)

	if e.opts.Cache != nil {
		if entry, ok := e.opts.Cache.Lookup(path, content, stat); ok && (!e.fix || !hasFixable(entry.Violations)) {
			e.log.WithField("path", path).Debug("cache hit")
			return &Result{
				Path:       path,
				Source:     content,
				Violations: entry.Violations,
				FromCache:  true,
			}, nil
		}
	}

	res, err := e.LintSource(path, content)
	if err != nil {
		if e.opts.Cache != nil {
			e.opts.Cache.Invalidate(path)
		}
		return nil, err
	}

	if res.FixedSource == nil {
		if e.opts.Cache != nil {
			e.opts.Cache.Store(path, content, stat, res.Violations, "")
		}
		return res, nil
	}

	if err := os.WriteFile(path, res.FixedSource, info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("write fixed %s: %w", path, err)
	}
	e.log.WithFields(logrus.Fields{
		"path":  path,
		"fixes": len(res.Change.FixesApplied),
	}).Debug("wrote fixes")

	if e.opts.Cache != nil {
		// The cache describes the canonical (fixed) content as a plain lint
		// would see it.
		e.opts.Cache.Invalidate(path)
		if info, err := os.Stat(path); err == nil {
			clean := New(Options{Config: e.cfg, Rules: e.newRule, Logger: e.log, OnParse: e.opts.OnParse})
			clean.fix = false
			if after, err := clean.LintSource(path, res.FixedSource); err == nil {
				e.opts.Cache.Store(path, res.FixedSource, cache.StatOf(info), after.Violations, "")
			}
		}
	}
	return res, nil
}

// LintSource lints source as the content of path. It never touches the
// file system or the cache. Binary or non-UTF-8 content is an error.
func (e *Engine) LintSource(path string, source []byte) (*Result, error) {
	if err := fileval.Check(path, source); err != nil {
		return nil, err
	}
	set, err := e.newRule()
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return newFileLint(e, path, source, set).run(), nil
}

// LintFiles lints paths concurrently. Results are returned in input order;
// per-file failures are recorded in Result.Err. Cancelling ctx stops new
// files from being picked up.
func (e *Engine) LintFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	jobs := e.opts.Jobs
	if jobs <= 0 {
		jobs = e.cfg.Jobs
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := e.LintFile(ctx, path)
			if err != nil {
				res = &Result{Path: path, Err: err}
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		done := results[:0:0]
		for _, r := range results {
			if r != nil {
				done = append(done, r)
			}
		}
		return done, err
	}
	return results, nil
}

// IsCanceled reports whether err stems from context cancellation.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func hasFixable(violations []rules.Violation) bool {
	for _, v := range violations {
		if v.IsAutoFixable {
			return true
		}
	}
	return false
}
