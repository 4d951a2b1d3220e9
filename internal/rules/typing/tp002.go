package typing

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// CharRule flags blank-padded character columns.
type CharRule struct{}

// NewCharRule creates a new TP002 rule instance.
func NewCharRule() *CharRule {
	return &CharRule{}
}

// Metadata returns the rule metadata.
func (r *CharRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "TP002",
		Name:            "char",
		Category:        rules.CategoryTyping,
		Description:     "char(n) pads values with spaces and is never faster than text",
		Help:            "Use text",
		DocURL:          docBase + "char",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *CharRule) Handlers() []rules.Handler {
	return []rules.Handler{
		onColumnType(func(ctx *rules.Context, _ *pg_query.ColumnDef, tn *pg_query.TypeName) {
			if !ast.IsType(tn, "bpchar") {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Prefer text over char",
				Node:    tn,
				Fix:     retype(tn, false, "text"),
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewCharRule() })
}
