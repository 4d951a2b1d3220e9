// Package processor post-processes violations before they are reported.
//
// A Chain runs processors in order; each one returns a new slice. The
// linter runs suppression and deduplication per file; the CLI runs
// Report over the whole run.
package processor

import (
	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/sourcemap"
)

// Processor transforms a slice of violations. It must not modify the
// slice it is given.
type Processor interface {
	Name() string
	Process(violations []rules.Violation, ctx *Context) []rules.Violation
}

// Context carries what processors share during one run.
type Context struct {
	Config *config.Config

	// FileSources maps each linted path to its content.
	FileSources map[string][]byte

	sourceMaps map[string]*sourcemap.SourceMap
}

// NewContext creates a context. A nil config means the defaults.
func NewContext(cfg *config.Config, fileSources map[string][]byte) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Context{
		Config:      cfg,
		FileSources: fileSources,
		sourceMaps:  make(map[string]*sourcemap.SourceMap),
	}
}

// GetSourceMap returns the source map of file, built on first use, or
// nil when the file's content is unknown.
func (ctx *Context) GetSourceMap(file string) *sourcemap.SourceMap {
	if sm, ok := ctx.sourceMaps[file]; ok {
		return sm
	}
	source, ok := ctx.FileSources[file]
	if !ok {
		return nil
	}
	sm := sourcemap.New(source)
	ctx.sourceMaps[file] = sm
	return sm
}

// Chain runs processors in sequence.
type Chain struct {
	processors []Processor
}

// NewChain creates a new processor chain.
func NewChain(processors ...Processor) *Chain {
	return &Chain{processors: processors}
}

// Process runs every processor over the output of the previous one.
func (c *Chain) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	for _, p := range c.processors {
		violations = p.Process(violations, ctx)
	}
	return violations
}

// Report returns the chain run over a whole lint run before rendering.
// Snippets are attached after path normalization, so sources must be
// keyed the way the linter reported them.
func Report() *Chain {
	return NewChain(
		NewSnippetAttachment(),
		NewPathNormalization(),
		NewDeduplication(),
		NewSorting(),
	)
}

func filterViolations(violations []rules.Violation, keep func(rules.Violation) bool) []rules.Violation {
	out := make([]rules.Violation, 0, len(violations))
	for _, v := range violations {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func mapViolations(violations []rules.Violation, fn func(rules.Violation) rules.Violation) []rules.Violation {
	out := make([]rules.Violation, len(violations))
	for i, v := range violations {
		out[i] = fn(v)
	}
	return out
}
