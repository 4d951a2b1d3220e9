package constraint

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// MissingPrimaryKeyRule flags tables created without a primary key.
type MissingPrimaryKeyRule struct{}

// NewMissingPrimaryKeyRule creates a new CT003 rule instance.
func NewMissingPrimaryKeyRule() *MissingPrimaryKeyRule {
	return &MissingPrimaryKeyRule{}
}

// Metadata returns the rule metadata.
func (r *MissingPrimaryKeyRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "CT003",
		Name:            "missing-primary-key",
		Category:        rules.CategoryConstraint,
		Description:     "Every table should have a primary key",
		Help:            "Add a primary key",
		DocURL:          docBase + "missing-primary-key",
		DefaultSeverity: rules.SeverityWarning,
	}
}

// Handlers returns the rule's node handlers.
func (r *MissingPrimaryKeyRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) {
			// Partitions and typed tables take their keys from elsewhere.
			if n.GetPartbound() != nil || n.GetOfTypename() != nil {
				return
			}
			for _, elt := range n.GetTableElts() {
				if elt.GetTableLikeClause() != nil {
					return
				}
				if isPrimaryKey(elt.GetConstraint()) {
					return
				}
				for _, c := range elt.GetColumnDef().GetConstraints() {
					if isPrimaryKey(c.GetConstraint()) {
						return
					}
				}
			}
			ctx.Reportf(fmt.Sprintf("Table `%s` missing a primary key", ast.RangeVarName(n.GetRelation())))
		}),
	}
}

func isPrimaryKey(c *pg_query.Constraint) bool {
	return c != nil && c.GetContype() == pg_query.ConstrType_CONSTR_PRIMARY
}

func init() {
	rules.Register(func() rules.Rule { return NewMissingPrimaryKeyRule() })
}
