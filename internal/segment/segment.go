// Package segment splits SQL source into top-level statements with
// byte-accurate offsets.
//
// Segmentation trusts the PostgreSQL scanner for quoting rules: string
// literals, dollar quotes, quoted identifiers and comments never contribute
// statement boundaries. Only a semicolon at parenthesis depth zero ends a
// statement.
package segment

import (
	"errors"
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// ErrMissingSemicolon is wrapped by SQLParseError when the final statement
// of a file is not terminated.
var ErrMissingSemicolon = errors.New("statement is not terminated by a semicolon")

// SQLParseError reports a source that cannot be segmented.
type SQLParseError struct {
	// Offset is the byte offset in the source where the problem starts.
	Offset int
	// Err is the underlying cause.
	Err error
}

func (e *SQLParseError) Error() string {
	return fmt.Sprintf("%v (at offset %d)", e.Err, e.Offset)
}

func (e *SQLParseError) Unwrap() error {
	return e.Err
}

// Statement is a top-level slice of the source.
type Statement struct {
	// Location is the byte offset where the statement's span begins: zero for
	// the first statement, otherwise the byte after the previous semicolon.
	Location int `json:"location"`

	// Length is the span length in bytes, including the terminating semicolon.
	Length int `json:"length"`

	// Text is the source substring ending just before the semicolon.
	Text string `json:"text"`

	// TokenOffset is the absolute offset of the statement's first token.
	// Whitespace and (stripped) comments before it belong to the span but not
	// to the statement proper.
	TokenOffset int `json:"tokenOffset"`
}

// End returns the offset one past the terminating semicolon.
func (s Statement) End() int {
	return s.Location + s.Length
}

// SemicolonOffset returns the offset of the terminating semicolon.
func (s Statement) SemicolonOffset() int {
	return s.Location + s.Length - 1
}

// Contains reports whether offset lies within the statement span.
func (s Statement) Contains(offset int) bool {
	return offset >= s.Location && offset < s.End()
}

// Body returns the statement text from its first token up to the semicolon.
func (s Statement) Body() string {
	return s.Text[s.TokenOffset-s.Location:]
}

// Token is a scanner token with its source text.
type Token struct {
	Start int
	End   int
	Text  string
	Kind  pg_query.Token
	// Keyword reports whether the token is a PostgreSQL keyword of any kind.
	Keyword bool
}

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == pg_query.Token_SQL_COMMENT || t.Kind == pg_query.Token_C_COMMENT
}

// IsLineComment reports whether the token is a "--" comment.
func (t Token) IsLineComment() bool {
	return t.Kind == pg_query.Token_SQL_COMMENT
}

// Scan tokenizes source with the PostgreSQL scanner.
// Scanner failures (unterminated literals, invalid escapes) are returned as
// *SQLParseError.
func Scan(source string) ([]Token, error) {
	result, err := pg_query.Scan(source)
	if err != nil {
		return nil, &SQLParseError{Offset: 0, Err: err}
	}

	tokens := make([]Token, 0, len(result.GetTokens()))
	for _, tok := range result.GetTokens() {
		start, end := int(tok.GetStart()), int(tok.GetEnd())
		if start < 0 || end > len(source) || start > end {
			continue
		}
		tokens = append(tokens, Token{
			Start:   start,
			End:     end,
			Text:    source[start:end],
			Kind:    tok.GetToken(),
			Keyword: tok.GetKeywordKind() != pg_query.KeywordKind_NO_KEYWORD,
		})
	}
	return tokens, nil
}

// Comments returns every comment token in source order.
func Comments(source string) ([]Token, error) {
	tokens, err := Scan(source)
	if err != nil {
		return nil, err
	}
	comments := tokens[:0]
	for _, tok := range tokens {
		if tok.IsComment() {
			comments = append(comments, tok)
		}
	}
	return comments, nil
}

// StripComments replaces every comment byte with a space so that the parser
// never sees comment content while all surviving bytes keep their offsets.
// Newlines inside block comments are kept so line numbers stay aligned.
func StripComments(source string) (string, error) {
	comments, err := Comments(source)
	if err != nil {
		return "", err
	}
	if len(comments) == 0 {
		return source, nil
	}

	buf := []byte(source)
	for _, c := range comments {
		for i := c.Start; i < c.End; i++ {
			if buf[i] != '\n' && buf[i] != '\r' {
				buf[i] = ' '
			}
		}
	}
	return string(buf), nil
}

// Split segments source into statements. The source is expected to have
// its comments stripped (see StripComments); comment tokens are ignored
// either way.
//
// A trailing statement without a terminating semicolon is a fatal
// *SQLParseError wrapping ErrMissingSemicolon.
func Split(source string) ([]Statement, error) {
	tokens, err := Scan(source)
	if err != nil {
		return nil, err
	}

	var (
		statements []Statement
		start      int
		first      = -1
		depth      int
	)
	for _, tok := range tokens {
		if tok.IsComment() {
			continue
		}
		switch tok.Text {
		case "(":
			depth++
		case ")":
			if depth > 0 {
				depth--
			}
		case ";":
			if depth > 0 {
				continue
			}
			if first >= 0 {
				statements = append(statements, Statement{
					Location:    start,
					Length:      tok.Start - start + 1,
					Text:        source[start:tok.Start],
					TokenOffset: first,
				})
			}
			start = tok.End
			first = -1
			continue
		}
		if first < 0 {
			first = tok.Start
		}
	}

	if first >= 0 {
		return statements, &SQLParseError{Offset: first, Err: ErrMissingSemicolon}
	}
	return statements, nil
}

// Enclosing returns the index of the statement whose span contains offset,
// or -1 when offset lies after the last statement.
func Enclosing(statements []Statement, offset int) int {
	for i, stmt := range statements {
		if stmt.Contains(offset) {
			return i
		}
		if offset < stmt.Location {
			break
		}
	}
	return -1
}

// TrailingLocation returns the offset where a statement following all of
// statements would begin.
func TrailingLocation(statements []Statement) int {
	if len(statements) == 0 {
		return 0
	}
	return statements[len(statements)-1].End()
}

// LeadingTrivia returns the span text before the statement's first token,
// read from source (which may contain comments).
func LeadingTrivia(source string, stmt Statement) string {
	if stmt.TokenOffset > len(source) {
		return ""
	}
	return strings.TrimLeft(source[stmt.Location:stmt.TokenOffset], "\n")
}
