package processor

import (
	"fmt"

	"github.com/bolajiwahab/pgrubic-sub001/internal/directive"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/sourcemap"
)

// Suppression applies a file's noqa directives and reports the directives
// that suppressed nothing as unused-noqa warnings.
//
// The directives are marked used in place, so after Process the caller's
// slice tells which ones matched.
type Suppression struct {
	file       string
	directives []directive.Directive
	sm         *sourcemap.SourceMap
}

// NewSuppression creates a suppression processor for one file.
func NewSuppression(file string, directives []directive.Directive, sm *sourcemap.SourceMap) *Suppression {
	return &Suppression{file: file, directives: directives, sm: sm}
}

// Name returns the processor's identifier.
func (p *Suppression) Name() string {
	return "suppression"
}

// Process drops suppressed violations and appends one unused-noqa warning
// per unused directive.
func (p *Suppression) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	result := directive.Filter(violations, p.directives)
	out := result.Violations
	for _, d := range result.UnusedDirectives {
		out = append(out, p.unused(d))
	}
	return out
}

func (p *Suppression) unused(d directive.Directive) rules.Violation {
	loc := rules.NewPointLocation(p.file, d.Line, 0)
	text := ""
	if p.sm != nil {
		loc = rules.NewOffsetLocation(p.file, p.sm, d.Location)
		text = p.sm.Line(d.Line - 1)
	}

	msg := "Unused noqa directive"
	if d.RuleCode != directive.AStar {
		msg = fmt.Sprintf("Unused noqa directive (unused: %s)", d.RuleCode)
	}

	v := rules.NewViolation(loc, rules.CodeUnusedDirective, msg, rules.SeverityWarning).
		WithStatement(d.StatementLocation).
		WithHelp("Remove the directive")
	v.Category = rules.CategoryNoqa
	v.RuleName = rules.CodeUnusedDirective
	v.SourceLine = text
	return v
}
