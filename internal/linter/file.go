package linter

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bolajiwahab/pgrubic-sub001/internal/directive"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fix"
	"github.com/bolajiwahab/pgrubic-sub001/internal/processor"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/segment"
	"github.com/bolajiwahab/pgrubic-sub001/internal/sourcemap"
)

// fileLint holds the state of linting one source.
type fileLint struct {
	engine     *Engine
	path       string
	source     []byte
	text       string
	sm         *sourcemap.SourceMap
	dispatcher *rules.Dispatcher
	directives []directive.Directive
	comments   []segment.Token
	log        *logrus.Entry

	violations []rules.Violation
	edits      []fix.Edit
	skipped    []fix.SkippedFix
}

func newFileLint(e *Engine, path string, source []byte, set []rules.Rule) *fileLint {
	return &fileLint{
		engine:     e,
		path:       path,
		source:     source,
		text:       string(source),
		sm:         sourcemap.New(source),
		dispatcher: rules.NewDispatcher(set),
		log:        e.log.WithField("path", path),
	}
}

func (l *fileLint) run() *Result {
	stripped, err := segment.StripComments(l.text)
	if err != nil {
		l.addSegmentError(err)
		return l.result(nil)
	}

	stmts, splitErr := segment.Split(stripped)
	if splitErr != nil && !errors.Is(splitErr, segment.ErrMissingSemicolon) {
		l.addSegmentError(splitErr)
		return l.result(nil)
	}

	if l.engine.fix {
		if l.comments, err = segment.Comments(l.text); err != nil {
			l.addSegmentError(err)
			return l.result(nil)
		}
	}

	if parsed, err := directive.Extract(l.text, stmts, l.sm); err != nil {
		l.log.WithError(err).Warn("cannot scan noqa directives")
	} else {
		l.directives = parsed.Directives
		for _, perr := range parsed.Errors {
			l.log.WithField("line", perr.Line).Warn(perr.Message)
		}
	}

	for _, stmt := range stmts {
		l.lintStatement(stmt)
	}
	if splitErr != nil {
		l.addSegmentError(splitErr)
	}

	l.violations = fileProcessors(l.path, l.directives, l.sm).
		Process(l.violations, processor.NewContext(l.engine.cfg, nil))

	return l.result(l.applyEdits())
}

func (l *fileLint) addSegmentError(err error) {
	offset := 0
	var serr *segment.SQLParseError
	if errors.As(err, &serr) {
		offset = serr.Offset
	}
	l.violations = append(l.violations, l.diagnostic(rules.CodeParseError, err.Error(), offset, 0))
}

// applyEdits splices fixed statements into the source and verifies that
// the result still parses. It returns the fixed source, or nil.
func (l *fileLint) applyEdits() []byte {
	if len(l.edits) == 0 {
		return nil
	}

	fixed, err := fix.Splice(l.text, l.edits)
	if err == nil {
		err = fix.Verify(fixed)
	}
	if err != nil {
		l.log.WithError(err).Warn("discarding fixes")
		for i := range l.violations {
			v := &l.violations[i]
			if !v.IsFixApplied {
				continue
			}
			v.IsFixApplied = false
			l.skipped = append(l.skipped, fix.SkippedFix{
				RuleCode: v.RuleCode,
				Reason:   fix.SkipVerify,
				Location: v.Location,
				Error:    err.Error(),
			})
		}
		l.violations = append(l.violations, l.diagnostic(rules.CodeInternalFixError,
			fmt.Sprintf("Fixed source does not parse: %v", err), l.edits[0].Start, 0))
		return nil
	}
	if fixed == l.text {
		return nil
	}
	return []byte(fixed)
}

func (l *fileLint) result(fixed []byte) *Result {
	res := &Result{
		Path:        l.path,
		Source:      l.source,
		Violations:  l.violations,
		Directives:  l.directives,
		FixedSource: fixed,
	}
	if !l.engine.fix {
		return res
	}

	change := &fix.FileChange{
		Path:            l.path,
		FixesSkipped:    l.skipped,
		OriginalContent: l.source,
		ModifiedContent: l.source,
	}
	if fixed != nil {
		change.ModifiedContent = fixed
		for _, v := range l.violations {
			if v.IsFixApplied {
				change.FixesApplied = append(change.FixesApplied, fix.AppliedFix{
					RuleCode:          v.RuleCode,
					Description:       v.Message,
					Location:          v.Location,
					StatementLocation: v.StatementLocation,
				})
			}
		}
	}
	res.Change = change
	return res
}

// diagnostic builds an engine diagnostic at an absolute source offset.
func (l *fileLint) diagnostic(code, message string, offset, statementLocation int) rules.Violation {
	loc := rules.NewOffsetLocation(l.path, l.sm, offset)
	v := rules.NewViolation(loc, code, message, rules.SeverityWarning).WithStatement(statementLocation)
	v.RuleName = code
	v.Category = rules.CategoryInternal
	if code == rules.CodeParseError {
		v.Severity = rules.SeverityError
		v.Category = rules.CategorySyntax
	}
	v.SourceLine = l.sm.Line(loc.Start.Line - 1)
	return v
}
