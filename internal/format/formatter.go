package format

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/bolajiwahab/pgrubic-sub001/internal/cache"
	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fileval"
)

// Options configures a Formatter.
type Options struct {
	// Config is the resolved configuration. Nil means config.Default().
	Config *config.Config

	// Write rewrites files whose formatting changed.
	Write bool

	// Cache holds formatted output keyed on file content. Nil disables it.
	Cache *cache.Cache

	// Logger receives debug output.
	Logger *logrus.Entry

	// Jobs bounds concurrent files in FormatFiles. Zero means GOMAXPROCS.
	Jobs int
}

// Result is the outcome of formatting one file.
type Result struct {
	Path      string
	Source    []byte
	Formatted string
	Written   bool
	FromCache bool

	// Err is set by FormatFiles when the file could not be formatted.
	Err error
}

// Changed reports whether formatting altered the file.
func (r *Result) Changed() bool {
	return r.Err == nil && string(r.Source) != r.Formatted
}

// Formatter formats SQL files.
type Formatter struct {
	cfg  *config.Config
	opts Options
	log  *logrus.Entry
}

// New creates a formatter.
func New(opts Options) *Formatter {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Formatter{cfg: cfg, opts: opts, log: log.WithField("component", "format")}
}

// Options returns the format options for path, with the indent resolved.
func (f *Formatter) Options(path string) config.FormatConfig {
	opts := f.cfg.Format
	opts.Indent = IndentFor(path, opts.Indent)
	return opts
}

// FormatFile formats the file at path, rewriting it when Options.Write is
// set and the output differs.
func (f *Formatter) FormatFile(ctx context.Context, path string) (*Result, error) {
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
	if err := fileval.Check(path, content); err != nil {
		return nil, fmt.Errorf("format %s: %w", path, err)
	}
	stat := cache.StatOf(info)
	res := &Result{Path: path, Source: content}

	if entry, ok := f.lookup(path, content, stat); ok {
		f.log.WithField("path", path).Debug("cache hit")
		res.Formatted = entry.Output
		res.FromCache = true
	} else {
		res.Formatted, err = Source(string(content), f.Options(path))
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", path, err)
		}
		if f.opts.Cache != nil {
			f.opts.Cache.Store(path, content, stat, nil, res.Formatted)
		}
	}

	if !f.opts.Write || !res.Changed() {
		return res, nil
	}
	if err := os.WriteFile(path, []byte(res.Formatted), info.Mode().Perm()); err != nil {
		return nil, fmt.Errorf("write formatted %s: %w", path, err)
	}
	res.Written = true
	if f.opts.Cache != nil {
		// Formatted output formats to itself.
		if info, err := os.Stat(path); err == nil {
			f.opts.Cache.Store(path, []byte(res.Formatted), cache.StatOf(info), nil, res.Formatted)
		}
	}
	return res, nil
}

func (f *Formatter) lookup(path string, content []byte, stat cache.Stat) (cache.Entry, bool) {
	if f.opts.Cache == nil {
		return cache.Entry{}, false
	}
	return f.opts.Cache.Lookup(path, content, stat)
}

// FormatFiles formats paths concurrently. Results are returned in input
// order; per-file failures are recorded in Result.Err.
func (f *Formatter) FormatFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	jobs := f.opts.Jobs
	if jobs <= 0 {
		jobs = f.cfg.Jobs
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
			res, err := f.FormatFile(ctx, path)
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
