package unsafe

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// NotNullColumnWithoutDefaultRule flags ALTER TABLE ADD COLUMN ... NOT NULL
// without a default, which fails on any non-empty table.
type NotNullColumnWithoutDefaultRule struct{}

// NewNotNullColumnWithoutDefaultRule creates a new US003 rule instance.
func NewNotNullColumnWithoutDefaultRule() *NotNullColumnWithoutDefaultRule {
	return &NotNullColumnWithoutDefaultRule{}
}

// Metadata returns the rule metadata.
func (r *NotNullColumnWithoutDefaultRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "US003",
		Name:            "not-null-column-without-default",
		Category:        rules.CategoryUnsafe,
		Description:     "A NOT NULL column without a default cannot be added to a populated table",
		Help:            "Add a static default",
		DocURL:          docBase + "not-null-column-without-default",
		DefaultSeverity: rules.SeverityError,
	}
}

// Handlers returns the rule's node handlers.
func (r *NotNullColumnWithoutDefaultRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.AlterTableCmd) {
			if n.GetSubtype() != pg_query.AlterTableType_AT_AddColumn {
				return
			}
			col := n.GetDef().GetColumnDef()
			if col == nil || col.GetRawDefault() != nil || col.GetIdentity() != "" {
				return
			}

			notNull := false
			for _, c := range col.GetConstraints() {
				switch c.GetConstraint().GetContype() {
				case pg_query.ConstrType_CONSTR_NOTNULL, pg_query.ConstrType_CONSTR_PRIMARY:
					notNull = true
				case pg_query.ConstrType_CONSTR_DEFAULT,
					pg_query.ConstrType_CONSTR_IDENTITY,
					pg_query.ConstrType_CONSTR_GENERATED:
					return
				}
			}
			if notNull {
				ctx.Reportf(fmt.Sprintf("Not null constraint on new column `%s` with no static default", col.GetColname()))
			}
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewNotNullColumnWithoutDefaultRule() })
}
