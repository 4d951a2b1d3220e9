package rules

// Codes of diagnostics produced by the engine itself rather than by a rule.
const (
	// CodeParseError marks a statement the parser rejected.
	CodeParseError = "parse-error"

	// CodeFixpointNotReached marks a statement whose fixes did not converge.
	CodeFixpointNotReached = "fixpoint-not-reached"

	// CodeInternalFixError marks fixes that produced unparsable SQL.
	CodeInternalFixError = "internal-fix-error"

	// CodeUnusedDirective marks a noqa directive that suppressed nothing.
	CodeUnusedDirective = "unused-noqa"
)

// Categories of engine diagnostics.
const (
	CategorySyntax   = "syntax"
	CategoryInternal = "internal"
	CategoryNoqa     = "noqa"
)

// Violation represents a single finding.
type Violation struct {
	// Location specifies where the violation occurred.
	Location Location `json:"location"`

	// RuleCode is the rule identifier (e.g., "GN001").
	RuleCode string `json:"rule"`

	// RuleName is the kebab-case rule name.
	RuleName string `json:"name,omitempty"`

	// Category is the rule category.
	Category string `json:"category,omitempty"`

	// Message is a human-readable description of the issue.
	Message string `json:"message"`

	// Help is an optional remediation hint.
	Help string `json:"help,omitempty"`

	// Severity indicates how critical this violation is.
	Severity Severity `json:"severity"`

	// DocURL links to documentation about this rule (optional).
	DocURL string `json:"docUrl,omitempty"`

	// SourceLine is the full text of the reported line.
	SourceLine string `json:"sourceLine,omitempty"`

	// SourceCode is a multi-line snippet around the violation (optional).
	// Populated by post-processing; rules don't need to set this.
	SourceCode string `json:"sourceCode,omitempty"`

	// StatementLocation is the byte offset of the enclosing statement span.
	StatementLocation int `json:"statementLocation"`

	// IsAutoFixable reports whether the rule provides a fix.
	IsAutoFixable bool `json:"isAutoFixable"`

	// IsFixApplied reports whether the fix was applied to the output.
	IsFixApplied bool `json:"isFixApplied"`
}

// NewViolation creates a new violation with the minimum required fields.
func NewViolation(loc Location, ruleCode, message string, severity Severity) Violation {
	return Violation{
		Location: loc,
		RuleCode: ruleCode,
		Message:  message,
		Severity: severity,
	}
}

// Key identifies a violation for deduplication:
// (rule code, statement location, line, column, description).
type Key struct {
	RuleCode          string
	StatementLocation int
	Line              int
	Column            int
	Message           string
}

// Key returns the violation's identity.
func (v Violation) Key() Key {
	return Key{
		RuleCode:          v.RuleCode,
		StatementLocation: v.StatementLocation,
		Line:              v.Location.Start.Line,
		Column:            v.Location.Start.Column,
		Message:           v.Message,
	}
}

// IsInternal reports whether the violation was produced by the engine
// rather than by a rule. Such diagnostics cannot be suppressed by noqa.
func (v Violation) IsInternal() bool {
	switch v.RuleCode {
	case CodeParseError, CodeFixpointNotReached, CodeInternalFixError, CodeUnusedDirective:
		return true
	}
	return false
}

// IsBug reports whether the violation signals a defect in the tool itself.
func (v Violation) IsBug() bool {
	return v.RuleCode == CodeInternalFixError || v.RuleCode == CodeFixpointNotReached
}

// WithHelp adds a help message to the violation.
func (v Violation) WithHelp(help string) Violation {
	v.Help = help
	return v
}

// WithDocURL adds a documentation URL to the violation.
func (v Violation) WithDocURL(url string) Violation {
	v.DocURL = url
	return v
}

// WithSourceCode adds source code snippet to the violation.
func (v Violation) WithSourceCode(code string) Violation {
	v.SourceCode = code
	return v
}

// WithStatement sets the enclosing statement location.
func (v Violation) WithStatement(location int) Violation {
	v.StatementLocation = location
	return v
}

// File returns the file path from the location.
func (v Violation) File() string {
	return v.Location.File
}

// Line returns the 1-based starting line number.
func (v Violation) Line() int {
	return v.Location.Start.Line
}

// Column returns the 0-based starting column.
func (v Violation) Column() int {
	return v.Location.Start.Column
}
