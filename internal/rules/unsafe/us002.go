package unsafe

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// DropColumnRule flags ALTER TABLE ... DROP COLUMN.
type DropColumnRule struct{}

// NewDropColumnRule creates a new US002 rule instance.
func NewDropColumnRule() *DropColumnRule {
	return &DropColumnRule{}
}

// Metadata returns the rule metadata.
func (r *DropColumnRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "US002",
		Name:            "drop-column",
		Category:        rules.CategoryUnsafe,
		Description:     "Dropping a column loses its data and breaks running code that reads it",
		Help:            "Stop reading the column in application code first",
		DocURL:          docBase + "drop-column",
		DefaultSeverity: rules.SeverityError,
	}
}

// Handlers returns the rule's node handlers.
func (r *DropColumnRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.AlterTableCmd) {
			if n.GetSubtype() == pg_query.AlterTableType_AT_DropColumn {
				ctx.Reportf("Drop column detected")
			}
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewDropColumnRule() })
}
