package rules

import (
	"google.golang.org/protobuf/proto"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
)

// Rule categories.
const (
	CategoryGeneral    = "general"
	CategoryConstraint = "constraint"
	CategoryTyping     = "typing"
	CategoryNaming     = "naming"
	CategorySchema     = "schema"
	CategoryUnsafe     = "unsafe"
)

// RuleMetadata contains static information about a rule.
type RuleMetadata struct {
	// Code is the unique identifier (e.g., "GN001").
	Code string

	// Name is the unique kebab-case rule name (e.g., "table-inheritance").
	Name string

	// Category groups related rules (e.g., "general", "typing").
	Category string

	// Description explains what the rule checks.
	Description string

	// Help is the default remediation hint attached to violations.
	Help string

	// DocURL links to detailed documentation.
	DocURL string

	// DefaultSeverity is the severity of the rule's violations.
	DefaultSeverity Severity

	// IsAutoFixable marks rules that provide fixes. Fixes of rules without
	// this flag are never invoked.
	IsAutoFixable bool
}

// Rule is the interface that all linting rules must implement.
//
// A rule registers handlers for the AST node kinds it inspects. The engine
// walks each statement tree in pre-order and calls every handler registered
// for the visited node's kind.
type Rule interface {
	// Metadata returns static information about the rule.
	Metadata() RuleMetadata

	// Handlers returns the rule's node handlers.
	Handlers() []Handler
}

// Handler binds a visit callback to a node kind.
type Handler struct {
	// Kind is the protobuf message name of the handled node (e.g. "CreateStmt").
	Kind string

	visit func(*Context, proto.Message)
}

// On builds a typed handler. The node kind is derived from T:
//
//	rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) { ... })
func On[T proto.Message](fn func(*Context, T)) Handler {
	var zero T
	return Handler{
		Kind: ast.Kind(zero),
		visit: func(ctx *Context, m proto.Message) {
			if node, ok := m.(T); ok {
				fn(ctx, node)
			}
		},
	}
}
