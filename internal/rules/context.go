package rules

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"
	"google.golang.org/protobuf/proto"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/segment"
)

// Finding is what a handler reports.
type Finding struct {
	// Message is the violation description.
	Message string

	// Help overrides the rule's default help text.
	Help string

	// Node moves the reported location to another node (e.g. a child of the
	// visited node). It is also the node claimed by the fix.
	Node proto.Message

	// Fix eliminates the violation. Rules attach it unconditionally; the
	// engine decides whether to run it.
	Fix FixFunc

	// SkipFix marks this particular site as not fixable (for instance when
	// a replacement cannot be derived from the configuration).
	SkipFix bool
}

// Context is the ambient per-visit state handed to rule handlers.
type Context struct {
	// File is the path of the file being linted.
	File string

	// Source is the original file content.
	Source string

	// Statement is the statement being visited.
	Statement segment.Statement

	// Config is the active configuration.
	Config *config.Config

	// NodeLocation is the visited node's offset relative to the statement.
	NodeLocation int

	// Pass is the 1-based fix-loop iteration.
	Pass int

	meta   RuleMetadata
	cursor *ast.Cursor
	run    *passRun
}

// StatementLocation returns the offset of the enclosing statement span.
func (c *Context) StatementLocation() int {
	return c.Statement.Location
}

// StatementLength returns the length of the enclosing statement span.
func (c *Context) StatementLength() int {
	return c.Statement.Length
}

// Rule returns the metadata of the rule being dispatched.
func (c *Context) Rule() RuleMetadata {
	return c.meta
}

// Lint returns the lint configuration.
func (c *Context) Lint() config.LintConfig {
	if c.Config == nil {
		return config.Default().Lint
	}
	return c.Config.Lint
}

// Report records a violation at the visited node, or at f.Node when set.
func (c *Context) Report(f Finding) {
	c.run.report(c, f)
}

// Reportf is shorthand for reporting a message without a fix.
func (c *Context) Reportf(message string) {
	c.Report(Finding{Message: message})
}

// Parent returns the nearest ancestor that is not a generic Node wrapper.
func (c *Context) Parent() proto.Message {
	for _, a := range c.cursor.Ancestors() {
		if _, ok := a.(*pg_query.Node); ok {
			continue
		}
		return a
	}
	return nil
}

// Ancestors returns the ancestors of the visited node, nearest first,
// including generic Node wrappers.
func (c *Context) Ancestors() []proto.Message {
	return c.cursor.Ancestors()
}

// IsStatementRoot reports whether the visited node is the statement itself
// (only Node wrappers above it).
func (c *Context) IsStatementRoot() bool {
	return c.Parent() == nil
}

// FindNearest returns the nearest ancestor of type T.
func FindNearest[T proto.Message](c *Context) (T, bool) {
	for _, a := range c.cursor.Ancestors() {
		if t, ok := a.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}
