package general

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// DropCascadeRule flags DROP ... CASCADE, which silently removes dependent
// objects.
type DropCascadeRule struct{}

// NewDropCascadeRule creates a new GN007 rule instance.
func NewDropCascadeRule() *DropCascadeRule {
	return &DropCascadeRule{}
}

// Metadata returns the rule metadata.
func (r *DropCascadeRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN007",
		Name:            "drop-cascade",
		Category:        rules.CategoryGeneral,
		Description:     "CASCADE drops every dependent object without listing them",
		Help:            "Drop dependent objects explicitly and use RESTRICT",
		DocURL:          docBase + "drop-cascade",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *DropCascadeRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.DropStmt) {
			if n.GetBehavior() != pg_query.DropBehavior_DROP_CASCADE {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Drop cascade detected",
				Fix: func() rules.FixResult {
					n.Behavior = pg_query.DropBehavior_DROP_RESTRICT
					return rules.Keep()
				},
			})
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.AlterTableCmd) {
			if n.GetBehavior() != pg_query.DropBehavior_DROP_CASCADE {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Drop cascade detected",
				Fix: func() rules.FixResult {
					n.Behavior = pg_query.DropBehavior_DROP_RESTRICT
					return rules.Keep()
				},
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewDropCascadeRule() })
}
