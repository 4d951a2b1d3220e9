package typing

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// MoneyRule flags money columns.
type MoneyRule struct{}

// NewMoneyRule creates a new TP004 rule instance.
func NewMoneyRule() *MoneyRule {
	return &MoneyRule{}
}

// Metadata returns the rule metadata.
func (r *MoneyRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "TP004",
		Name:            "money",
		Category:        rules.CategoryTyping,
		Description:     "money depends on lc_monetary and rounds fractional cents",
		Help:            "Use numeric",
		DocURL:          docBase + "money",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *MoneyRule) Handlers() []rules.Handler {
	return []rules.Handler{
		onColumnType(func(ctx *rules.Context, _ *pg_query.ColumnDef, tn *pg_query.TypeName) {
			if !ast.IsType(tn, "money") {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Prefer numeric over money",
				Node:    tn,
				Fix:     retype(tn, false, "pg_catalog", "numeric"),
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewMoneyRule() })
}
