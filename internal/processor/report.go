package processor

import (
	"strings"

	"github.com/bolajiwahab/pgrubic-sub001/internal/reporter"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// PathNormalization rewrites backslashes in file paths to forward slashes.
type PathNormalization struct{}

// NewPathNormalization creates a path-normalization processor.
func NewPathNormalization() *PathNormalization { return &PathNormalization{} }

// Name returns the processor's identifier.
func (*PathNormalization) Name() string { return "path-normalization" }

// Process rewrites the paths.
func (*PathNormalization) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	return mapViolations(violations, func(v rules.Violation) rules.Violation {
		v.Location.File = strings.ReplaceAll(v.Location.File, `\`, "/")
		return v
	})
}

// Sorting orders violations by file, line, column and rule code.
type Sorting struct{}

// NewSorting creates a sorting processor.
func NewSorting() *Sorting { return &Sorting{} }

// Name returns the processor's identifier.
func (*Sorting) Name() string { return "sorting" }

// Process returns a sorted copy of violations.
func (*Sorting) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	return reporter.SortViolations(violations)
}

// SnippetAttachment fills SourceCode with the lines a violation covers,
// unless output.show-source is off. File-level violations get nothing.
type SnippetAttachment struct{}

// NewSnippetAttachment creates a snippet processor.
func NewSnippetAttachment() *SnippetAttachment { return &SnippetAttachment{} }

// Name returns the processor's identifier.
func (*SnippetAttachment) Name() string { return "snippet-attachment" }

// Process attaches snippets from the file sources in ctx.
func (*SnippetAttachment) Process(violations []rules.Violation, ctx *Context) []rules.Violation {
	if !ctx.Config.Output.ShowSource {
		return violations
	}
	return mapViolations(violations, func(v rules.Violation) rules.Violation {
		if v.SourceCode != "" || v.Location.IsFileLevel() {
			return v
		}
		if sm := ctx.GetSourceMap(v.Location.File); sm != nil {
			v.SourceCode = snippet(sm, v.Location)
		} else {
			// Cached results keep their line text.
			v.SourceCode = v.SourceLine
		}
		return v
	})
}

type lineSource interface {
	Line(n int) string
	Snippet(first, last int) string
}

// snippet returns the lines of loc. A range ending at column zero does
// not include its last line.
func snippet(src lineSource, loc rules.Location) string {
	first := loc.Start.Line
	if first < 1 {
		return ""
	}
	if loc.IsPointLocation() {
		return src.Line(first - 1)
	}
	last := loc.End.Line
	if loc.End.Column == 0 && last > first {
		last--
	}
	return src.Snippet(first-1, last-1)
}
