// Package format pretty-prints SQL source.
//
// Every statement is parsed, deparsed and laid out again, so formatting
// normalizes keyword case, quoting and spacing. Comments in front of a
// statement are kept on their own lines; a statement with comments inside
// it is kept verbatim.
package format

import (
	"fmt"
	"strings"
	"unicode"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fix"
	"github.com/bolajiwahab/pgrubic-sub001/internal/segment"
)

// DefaultIndent is the indent width used when neither the config nor an
// .editorconfig sets one.
const DefaultIndent = 4

// Line-break policies.
const (
	LineBreakNone    = "none"
	LineBreakClauses = "clauses"
)

// Source formats SQL source. A statement that does not parse aborts
// formatting with a *segment.SQLParseError.
func Source(source string, cfg config.FormatConfig) (string, error) {
	stripped, err := segment.StripComments(source)
	if err != nil {
		return "", err
	}
	stmts, err := segment.Split(stripped)
	if err != nil {
		return "", err
	}
	comments, err := segment.Comments(source)
	if err != nil {
		return "", err
	}

	indent := cfg.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}
	f := &formatter{cfg: cfg, indent: indent, source: source, comments: comments}

	blocks := make([]string, 0, len(stmts)+1)
	for _, stmt := range stmts {
		block, err := f.statement(stmt)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}
	if trailer := commentLines(commentsIn(comments, segment.TrailingLocation(stmts), len(source))); trailer != "" {
		blocks = append(blocks, trailer)
	}
	if len(blocks) == 0 {
		return "", nil
	}

	sep := "\n" + strings.Repeat("\n", max(cfg.LinesBetweenStatements, 0))
	return strings.Join(blocks, sep) + "\n", nil
}

type formatter struct {
	cfg      config.FormatConfig
	indent   int
	source   string
	comments []segment.Token
}

func (f *formatter) statement(stmt segment.Statement) (string, error) {
	var b strings.Builder
	if leading := commentLines(commentsIn(f.comments, stmt.Location, stmt.TokenOffset)); leading != "" {
		b.WriteString(leading)
		b.WriteByte('\n')
	}

	if interior := commentsIn(f.comments, stmt.TokenOffset, stmt.SemicolonOffset()); len(interior) > 0 {
		body := strings.TrimRightFunc(f.source[stmt.TokenOffset:stmt.SemicolonOffset()], unicode.IsSpace)
		b.WriteString(body)
		last := interior[len(interior)-1]
		if last.IsLineComment() && last.End >= stmt.TokenOffset+len(body) {
			b.WriteString("\n;")
		} else {
			f.terminate(&b)
		}
		return b.String(), nil
	}

	tree, err := pg_query.Parse(stmt.Text)
	if err != nil {
		return "", &segment.SQLParseError{Offset: stmt.TokenOffset, Err: err}
	}
	if len(tree.GetStmts()) != 1 {
		return "", &segment.SQLParseError{
			Offset: stmt.TokenOffset,
			Err:    fmt.Errorf("expected one statement, parsed %d", len(tree.GetStmts())),
		}
	}
	node := tree.GetStmts()[0].GetStmt()
	text, err := fix.Deparse(node, tree.GetVersion())
	if err != nil {
		return "", &segment.SQLParseError{Offset: stmt.TokenOffset, Err: err}
	}

	laid, err := f.layout(node, text)
	if err != nil {
		return "", &segment.SQLParseError{Offset: stmt.TokenOffset, Err: err}
	}
	b.WriteString(laid)
	f.terminate(&b)
	return b.String(), nil
}

func (f *formatter) terminate(b *strings.Builder) {
	if f.cfg.NewLineBeforeSemicolon {
		b.WriteByte('\n')
	}
	b.WriteByte(';')
}

// commentsIn returns the comments starting in [start, end).
func commentsIn(comments []segment.Token, start, end int) []segment.Token {
	var out []segment.Token
	for _, c := range comments {
		if c.Start >= start && c.Start < end {
			out = append(out, c)
		}
	}
	return out
}

func commentLines(comments []segment.Token) string {
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, strings.TrimSpace(c.Text))
	}
	return strings.Join(lines, "\n")
}
