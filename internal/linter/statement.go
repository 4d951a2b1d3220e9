package linter

import (
	"errors"
	"fmt"
	"unicode/utf8"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/pganalyze/pg_query_go/v6/parser"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/directive"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fix"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/segment"
)

// finding identifies a violation across fix passes.
type finding struct {
	code    string
	message string
}

func findingOf(v rules.Violation) finding {
	return finding{code: v.RuleCode, message: v.Message}
}

// lintStatement parses one statement, runs the fix loop over it and
// records its violations and, when fixed, its splice edit.
func (l *fileLint) lintStatement(stmt segment.Statement) {
	if l.engine.opts.OnParse != nil {
		l.engine.opts.OnParse()
	}
	tree, err := pg_query.Parse(stmt.Text)
	if err != nil {
		l.violations = append(l.violations, l.parseError(stmt, err))
		return
	}
	if len(tree.GetStmts()) == 0 {
		return
	}
	root := tree.GetStmts()[0].GetStmt()
	version := tree.GetVersion()
	fallback := stmt.TokenOffset - stmt.Location

	var (
		first      []rules.Violation
		later      []rules.Violation
		last       []rules.Violation
		converged  bool
		fixedAny   bool
		deparsed   string
		locs       = ast.Tag(root, fallback)
		passOpts   = l.firstPassOptions(stmt)
		fixEnabled = l.engine.fix
	)

	for pass := 1; pass <= MaxIterations; pass++ {
		opts := passOpts
		opts.Pass = pass
		opts.Fix = fixEnabled
		opts.Fallback = fallback
		var fp *fix.Pass
		if fixEnabled {
			fp = fix.NewPass()
			opts.Applier = fp
		}
		if pass > 1 {
			opts.Position, opts.Suppressed = l.laterPassHooks(stmt)
			opts.Fallback = 0
		}

		res := l.dispatcher.Run(root, locs, opts)
		if pass == 1 {
			first = res.Violations
		} else {
			later = append(later, res.Violations...)
		}
		last = res.Violations

		if res.Err != nil {
			l.fixFailed(stmt, first, fmt.Sprintf("Fix failed: %v", res.Err))
			return
		}
		if res.FixesApplied > 0 && l.hasInteriorComment(stmt) {
			l.discard(stmt, first, fix.SkipComments, "")
			return
		}
		if res.FixesApplied == 0 {
			converged = true
			break
		}
		if pass == MaxIterations {
			break
		}

		fp.Finish()
		fixedAny = true
		deparsed, err = fix.Deparse(root, version)
		if err != nil {
			l.fixFailed(stmt, first, fmt.Sprintf("Fixed statement cannot be printed: %v", err))
			return
		}
		reparsed, err := pg_query.Parse(deparsed)
		if err != nil || len(reparsed.GetStmts()) != 1 {
			if err == nil {
				err = fmt.Errorf("got %d statements", len(reparsed.GetStmts()))
			}
			l.fixFailed(stmt, first, fmt.Sprintf("Fixed statement does not parse: %v", err))
			return
		}
		root = reparsed.GetStmts()[0].GetStmt()
		version = reparsed.GetVersion()
		locs = ast.Tag(root, 0)
	}

	if !converged {
		l.discard(stmt, first, fix.SkipFixpoint, "")
		l.violations = append(l.violations, l.diagnostic(rules.CodeFixpointNotReached,
			fmt.Sprintf("Fixes did not converge after %d passes", MaxIterations),
			stmt.TokenOffset, stmt.Location))
		return
	}

	if !fixedAny {
		l.violations = append(l.violations, first...)
		return
	}

	l.violations = append(l.violations, l.reconcile(stmt, first, later, last)...)
	l.edits = append(l.edits, fix.Edit{
		Start: stmt.TokenOffset,
		End:   stmt.SemicolonOffset(),
		Text:  deparsed,
	})
}

// reconcile maps the violations of later passes back onto the first pass.
// A first-pass violation is fixed when its rule fixed it in some pass, and
// kept when it survives to the final pass. First-pass violations that
// vanished through other rules' fixes are dropped. Violations first seen
// in later passes that survive are reported at the statement start.
func (l *fileLint) reconcile(stmt segment.Statement, first, later, last []rules.Violation) []rules.Violation {
	fixedLater := make(map[finding]int)
	for _, v := range later {
		if v.IsFixApplied {
			fixedLater[findingOf(v)]++
		}
	}
	remaining := make(map[finding][]rules.Violation)
	for _, v := range last {
		k := findingOf(v)
		remaining[k] = append(remaining[k], v)
	}

	out := make([]rules.Violation, 0, len(first))
	for _, v := range first {
		k := findingOf(v)
		switch {
		case v.IsFixApplied:
			out = append(out, v)
		case fixedLater[k] > 0:
			fixedLater[k]--
			v.IsFixApplied = true
			out = append(out, v)
		case len(remaining[k]) > 0:
			remaining[k] = remaining[k][1:]
			out = append(out, v)
		}
	}

	line, col := l.sm.Position(stmt.TokenOffset)
	for _, v := range last {
		k := findingOf(v)
		if len(remaining[k]) == 0 {
			continue
		}
		remaining[k] = remaining[k][1:]
		v.Location = rules.NewPointLocation(l.path, line, col)
		v.SourceLine = l.sm.Line(line - 1)
		v.StatementLocation = stmt.Location
		v.IsFixApplied = false
		out = append(out, v)
	}
	return out
}

// fixFailed reports an internal fix error and falls back to the statement's
// unfixed violations.
func (l *fileLint) fixFailed(stmt segment.Statement, first []rules.Violation, message string) {
	l.log.WithField("statement", stmt.Location).Warn(message)
	l.discard(stmt, first, fix.SkipFailed, message)
	l.violations = append(l.violations, l.diagnostic(rules.CodeInternalFixError, message,
		stmt.TokenOffset, stmt.Location))
}

// discard throws away the fixes of a statement. The fixes applied in the
// first pass are recorded as skipped, and the reported violations come
// from a fix-free pass over the original text: fixed trees were mutated in
// place, so later handlers of the first pass may have seen fixed nodes.
func (l *fileLint) discard(stmt segment.Statement, first []rules.Violation, reason fix.SkipReason, message string) {
	for _, v := range first {
		if v.IsFixApplied {
			l.skipped = append(l.skipped, fix.SkippedFix{
				RuleCode: v.RuleCode,
				Reason:   reason,
				Location: v.Location,
				Error:    message,
			})
		}
	}
	l.violations = append(l.violations, l.unfixed(stmt)...)
}

// unfixed lints the original statement text without fixing.
func (l *fileLint) unfixed(stmt segment.Statement) []rules.Violation {
	tree, err := pg_query.Parse(stmt.Text)
	if err != nil || len(tree.GetStmts()) == 0 {
		return nil
	}
	root := tree.GetStmts()[0].GetStmt()
	fallback := stmt.TokenOffset - stmt.Location

	opts := l.firstPassOptions(stmt)
	opts.Pass = 1
	opts.Fallback = fallback
	return l.dispatcher.Run(root, ast.Tag(root, fallback), opts).Violations
}

// hasInteriorComment reports whether a comment starts inside the body of
// stmt. Splicing deparsed text over such a body would drop the comment.
func (l *fileLint) hasInteriorComment(stmt segment.Statement) bool {
	end := stmt.SemicolonOffset()
	for _, c := range l.comments {
		if c.Start >= stmt.TokenOffset && c.Start < end {
			return true
		}
	}
	return false
}

// firstPassOptions maps statement-relative locations through the file's
// source map.
func (l *fileLint) firstPassOptions(stmt segment.Statement) rules.PassOptions {
	return rules.PassOptions{
		File:      l.path,
		Source:    l.text,
		Statement: stmt,
		Config:    l.engine.cfg,
		Position: func(nodeLocation int) (int, int, string) {
			line, col := l.sm.Position(stmt.Location + nodeLocation)
			return line, col, l.sm.Line(line - 1)
		},
		Suppressed: func(code string, line int) bool {
			return directive.Suppresses(l.directives, code, stmt.Location, line)
		},
	}
}

// laterPassHooks returns the position and suppression hooks for passes over
// deparsed text. Positions collapse to the statement start; a site counts
// as suppressed when a statement directive or any line directive within
// the statement covers the rule.
func (l *fileLint) laterPassHooks(stmt segment.Statement) (func(int) (int, int, string), func(string, int) bool) {
	line, col := l.sm.Position(stmt.TokenOffset)
	text := l.sm.Line(line - 1)
	firstLine, _ := l.sm.Position(stmt.Location)
	lastLine, _ := l.sm.Position(stmt.SemicolonOffset())

	position := func(int) (int, int, string) { return line, col, text }
	suppressed := func(code string, _ int) bool {
		for i := range l.directives {
			d := &l.directives[i]
			if !d.SuppressesRule(code) {
				continue
			}
			if d.Kind == directive.KindStatement && d.StatementLocation == stmt.Location {
				return true
			}
			if d.Kind == directive.KindLine && d.Line >= firstLine && d.Line <= lastLine {
				return true
			}
		}
		return false
	}
	return position, suppressed
}

// parseError converts a parser failure into a parse-error diagnostic at the
// parser's cursor, or at the statement's first token when there is none.
func (l *fileLint) parseError(stmt segment.Statement, err error) rules.Violation {
	offset := stmt.TokenOffset
	message := err.Error()

	var perr *parser.Error
	if errors.As(err, &perr) {
		message = perr.Message
		if perr.Cursorpos > 0 {
			offset = stmt.Location + runeOffset(stmt.Text, perr.Cursorpos-1)
		}
	}
	return l.diagnostic(rules.CodeParseError, message, offset, stmt.Location)
}

// runeOffset returns the byte offset of the n-th character of s.
func runeOffset(s string, n int) int {
	offset := 0
	for i := 0; i < n && offset < len(s); i++ {
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	return offset
}
