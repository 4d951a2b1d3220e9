package typing

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// JSONRule flags json columns.
type JSONRule struct{}

// NewJSONRule creates a new TP006 rule instance.
func NewJSONRule() *JSONRule {
	return &JSONRule{}
}

// Metadata returns the rule metadata.
func (r *JSONRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "TP006",
		Name:            "json",
		Category:        rules.CategoryTyping,
		Description:     "json stores unparsed text and cannot be indexed",
		Help:            "Use jsonb",
		DocURL:          docBase + "json",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *JSONRule) Handlers() []rules.Handler {
	return []rules.Handler{
		onColumnType(func(ctx *rules.Context, _ *pg_query.ColumnDef, tn *pg_query.TypeName) {
			if !ast.IsType(tn, "json") {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Prefer jsonb over json",
				Node:    tn,
				Fix:     retype(tn, false, "jsonb"),
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewJSONRule() })
}
