package constraint

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// CascadeDeleteRule flags foreign keys declared ON DELETE CASCADE.
type CascadeDeleteRule struct{}

// NewCascadeDeleteRule creates a new CT001 rule instance.
func NewCascadeDeleteRule() *CascadeDeleteRule {
	return &CascadeDeleteRule{}
}

// Metadata returns the rule metadata.
func (r *CascadeDeleteRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "CT001",
		Name:            "cascade-delete",
		Category:        rules.CategoryConstraint,
		Description:     "ON DELETE CASCADE silently deletes referencing rows",
		Help:            "Use ON DELETE RESTRICT and delete dependent rows explicitly",
		DocURL:          docBase + "cascade-delete",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *CascadeDeleteRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.Constraint) {
			if n.GetContype() != pg_query.ConstrType_CONSTR_FOREIGN || n.GetFkDelAction() != actionCascade {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Cascade delete detected",
				Fix: func() rules.FixResult {
					n.FkDelAction = actionRestrict
					return rules.Keep()
				},
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewCascadeDeleteRule() })
}
