package unsafe

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// AddConstraintValidatedRule flags ALTER TABLE ADD CONSTRAINT for foreign
// keys and checks that validate existing rows while holding the lock.
type AddConstraintValidatedRule struct{}

// NewAddConstraintValidatedRule creates a new US008 rule instance.
func NewAddConstraintValidatedRule() *AddConstraintValidatedRule {
	return &AddConstraintValidatedRule{}
}

// Metadata returns the rule metadata.
func (r *AddConstraintValidatedRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "US008",
		Name:            "add-constraint-validated",
		Category:        rules.CategoryUnsafe,
		Description:     "Adding a validated constraint scans the table under lock",
		Help:            "Add the constraint NOT VALID, then VALIDATE CONSTRAINT separately",
		DocURL:          docBase + "add-constraint-validated",
		DefaultSeverity: rules.SeverityError,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *AddConstraintValidatedRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.AlterTableCmd) {
			if n.GetSubtype() != pg_query.AlterTableType_AT_AddConstraint {
				return
			}
			c := n.GetDef().GetConstraint()
			if c == nil || c.GetSkipValidation() {
				return
			}
			switch c.GetContype() {
			case pg_query.ConstrType_CONSTR_FOREIGN, pg_query.ConstrType_CONSTR_CHECK:
			default:
				return
			}
			ctx.Report(rules.Finding{
				Message: "Constraint should be added as NOT VALID",
				Node:    c,
				Fix: func() rules.FixResult {
					c.SkipValidation = true
					c.InitiallyValid = false
					return rules.Keep()
				},
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewAddConstraintValidatedRule() })
}
