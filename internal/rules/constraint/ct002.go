package constraint

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// CascadeUpdateRule flags foreign keys declared ON UPDATE CASCADE.
type CascadeUpdateRule struct{}

// NewCascadeUpdateRule creates a new CT002 rule instance.
func NewCascadeUpdateRule() *CascadeUpdateRule {
	return &CascadeUpdateRule{}
}

// Metadata returns the rule metadata.
func (r *CascadeUpdateRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "CT002",
		Name:            "cascade-update",
		Category:        rules.CategoryConstraint,
		Description:     "ON UPDATE CASCADE rewrites referencing rows on key changes",
		Help:            "Use ON UPDATE RESTRICT; primary keys should not change",
		DocURL:          docBase + "cascade-update",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *CascadeUpdateRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.Constraint) {
			if n.GetContype() != pg_query.ConstrType_CONSTR_FOREIGN || n.GetFkUpdAction() != actionCascade {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Cascade update detected",
				Fix: func() rules.FixResult {
					n.FkUpdAction = actionRestrict
					return rules.Keep()
				},
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewCascadeUpdateRule() })
}
