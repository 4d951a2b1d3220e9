package unsafe

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// AlterColumnTypeRule flags ALTER TABLE ... ALTER COLUMN ... TYPE.
type AlterColumnTypeRule struct{}

// NewAlterColumnTypeRule creates a new US006 rule instance.
func NewAlterColumnTypeRule() *AlterColumnTypeRule {
	return &AlterColumnTypeRule{}
}

// Metadata returns the rule metadata.
func (r *AlterColumnTypeRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "US006",
		Name:            "alter-column-type",
		Category:        rules.CategoryUnsafe,
		Description:     "Changing a column type may rewrite the table under an ACCESS EXCLUSIVE lock",
		Help:            "Add a new column of the target type and migrate the data",
		DocURL:          docBase + "alter-column-type",
		DefaultSeverity: rules.SeverityError,
	}
}

// Handlers returns the rule's node handlers.
func (r *AlterColumnTypeRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.AlterTableCmd) {
			if n.GetSubtype() == pg_query.AlterTableType_AT_AlterColumnType {
				ctx.Reportf("Alter column type detected")
			}
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewAlterColumnTypeRule() })
}
