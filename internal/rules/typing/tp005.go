package typing

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// SerialRule flags serial, smallserial and bigserial columns.
type SerialRule struct{}

// NewSerialRule creates a new TP005 rule instance.
func NewSerialRule() *SerialRule {
	return &SerialRule{}
}

// Metadata returns the rule metadata.
func (r *SerialRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "TP005",
		Name:            "serial",
		Category:        rules.CategoryTyping,
		Description:     "serial types create sequences with surprising ownership and permissions",
		Help:            "Use an identity column: GENERATED ALWAYS AS IDENTITY",
		DocURL:          docBase + "serial",
		DefaultSeverity: rules.SeverityWarning,
	}
}

// Handlers returns the rule's node handlers.
func (r *SerialRule) Handlers() []rules.Handler {
	return []rules.Handler{
		onColumnType(func(ctx *rules.Context, _ *pg_query.ColumnDef, tn *pg_query.TypeName) {
			if !ast.IsType(tn, "serial", "serial2", "serial4", "serial8", "smallserial", "bigserial") {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Prefer identity columns over serial types",
				Node:    tn,
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewSerialRule() })
}
