package typing

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// VarcharRule flags columns of type varchar(n).
type VarcharRule struct{}

// NewVarcharRule creates a new TP003 rule instance.
func NewVarcharRule() *VarcharRule {
	return &VarcharRule{}
}

// Metadata returns the rule metadata.
func (r *VarcharRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "TP003",
		Name:            "varchar",
		Category:        rules.CategoryTyping,
		Description:     "varchar(n) length limits are better expressed as check constraints",
		Help:            "Use text",
		DocURL:          docBase + "varchar",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *VarcharRule) Handlers() []rules.Handler {
	return []rules.Handler{
		onColumnType(func(ctx *rules.Context, _ *pg_query.ColumnDef, tn *pg_query.TypeName) {
			if !ast.IsType(tn, "varchar") {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Prefer text over varchar",
				Node:    tn,
				Fix:     retype(tn, false, "text"),
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewVarcharRule() })
}
