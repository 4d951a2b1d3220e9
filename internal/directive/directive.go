// Package directive provides inline suppression directives for linting.
//
// Supported comment forms:
//   - -- noqa                     suppress every rule
//   - -- noqa: GN001, CT002       suppress the listed rules
//   - -- pgrubic: noqa[: ...]     alias of the two forms above
//
// Directives are scoped either to a statement or to a line:
//   - Line: the comment shares its physical line with SQL tokens
//   - Statement: the comment stands on its own lines inside a statement span
package directive

import "strings"

// AStar is the rule code of a bare "noqa" directive. It matches every rule.
const AStar = "*"

// Kind indicates the scope of a directive.
type Kind int

const (
	// KindStatement covers every violation of the enclosing statement.
	KindStatement Kind = iota
	// KindLine covers violations reported on the directive's line.
	KindLine
)

// String returns a human-readable name for the directive kind.
func (k Kind) String() string {
	switch k {
	case KindStatement:
		return "statement"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Directive represents a parsed inline suppression directive.
// A comment listing several codes produces one Directive per code.
type Directive struct {
	// Kind is the directive scope.
	Kind Kind `json:"kind"`

	// RuleCode is the suppressed rule code, or AStar.
	RuleCode string `json:"rule"`

	// Location is the byte offset of the comment.
	Location int `json:"location"`

	// StatementLocation is the Location of the enclosing statement span.
	StatementLocation int `json:"statementLocation"`

	// Line is the 1-based line of the comment.
	Line int `json:"line"`

	// Used is set once the directive suppresses at least one violation.
	Used bool `json:"used"`

	// RawText is the original comment text.
	RawText string `json:"rawText"`
}

// SuppressesRule returns true if this directive suppresses the given rule code.
func (d *Directive) SuppressesRule(ruleCode string) bool {
	return d.RuleCode == AStar || strings.EqualFold(d.RuleCode, ruleCode)
}

// Covers reports whether the directive's scope contains a violation at the
// given statement location and 1-based line.
func (d *Directive) Covers(statementLocation, line int) bool {
	if d.Kind == KindLine {
		return d.Line == line
	}
	return d.StatementLocation == statementLocation
}

// ParseResult contains all directives parsed from a file plus any errors.
type ParseResult struct {
	// Directives contains successfully parsed directives in source order.
	Directives []Directive

	// Errors contains malformed directives. They are warnings, never fatal.
	Errors []ParseError
}

// ParseError represents a malformed directive.
type ParseError struct {
	// Offset is the byte offset of the comment.
	Offset int

	// Line is the 1-based line of the comment.
	Line int

	// Message describes what went wrong.
	Message string

	// RawText is the original comment text.
	RawText string
}

func (e ParseError) Error() string {
	return e.Message
}
