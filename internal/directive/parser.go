package directive

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bolajiwahab/pgrubic-sub001/internal/segment"
	"github.com/bolajiwahab/pgrubic-sub001/internal/sourcemap"
)

var (
	// -- [pgrubic:] noqa<rest>
	noqaPattern = regexp.MustCompile(`(?i)^--\s*(?:pgrubic\s*:\s*)?noqa(.*)$`)

	codePattern = regexp.MustCompile(`^[A-Za-z]+[0-9]+$`)
)

// Extract scans source for noqa comments and binds each directive to a line
// or statement scope. Statements must come from segmenting the same source.
//
// Malformed directives are collected in ParseResult.Errors; the returned
// error is only set when the source cannot be tokenized.
func Extract(source string, statements []segment.Statement, sm *sourcemap.SourceMap) (*ParseResult, error) {
	tokens, err := segment.Scan(source)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{}
	prevEnd := -1 // end offset of the last non-comment token

	for _, tok := range tokens {
		if !tok.IsComment() {
			prevEnd = tok.End
			continue
		}
		if !tok.IsLineComment() {
			continue
		}

		codes, ok, malformed := parseComment(tok.Text)
		line, _ := sm.Position(tok.Start)
		if malformed {
			result.Errors = append(result.Errors, ParseError{
				Offset:  tok.Start,
				Line:    line,
				Message: fmt.Sprintf("Malformed noqa directive at offset %d", tok.Start),
				RawText: tok.Text,
			})
			continue
		}
		if !ok {
			continue
		}

		kind := KindStatement
		if prevEnd > 0 && sm.SameLine(prevEnd-1, tok.Start) {
			kind = KindLine
		}

		stmtLocation := segment.TrailingLocation(statements)
		if idx := segment.Enclosing(statements, tok.Start); idx >= 0 {
			stmtLocation = statements[idx].Location
		}

		for _, code := range codes {
			result.Directives = append(result.Directives, Directive{
				Kind:              kind,
				RuleCode:          code,
				Location:          tok.Start,
				StatementLocation: stmtLocation,
				Line:              line,
				RawText:           tok.Text,
			})
		}
	}

	return result, nil
}

// parseComment classifies a "--" comment. ok is false for ordinary comments;
// malformed is true for comments that look like directives but are not.
func parseComment(text string) (codes []string, ok, malformed bool) {
	m := noqaPattern.FindStringSubmatch(strings.TrimRight(text, "\r"))
	if m == nil {
		return nil, false, false
	}

	rest := m[1]
	if rest == "" {
		return []string{AStar}, true, false
	}
	if !strings.HasPrefix(rest, ":") {
		return nil, false, true
	}

	for part := range strings.SplitSeq(rest[1:], ",") {
		code := strings.TrimSpace(part)
		if code == "" {
			continue
		}
		if !codePattern.MatchString(code) {
			return nil, false, true
		}
		codes = append(codes, strings.ToUpper(code))
	}
	if len(codes) == 0 {
		return nil, false, true
	}
	return codes, true, false
}
