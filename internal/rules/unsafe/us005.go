package unsafe

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// RenameColumnRule flags ALTER TABLE ... RENAME COLUMN.
type RenameColumnRule struct{}

// NewRenameColumnRule creates a new US005 rule instance.
func NewRenameColumnRule() *RenameColumnRule {
	return &RenameColumnRule{}
}

// Metadata returns the rule metadata.
func (r *RenameColumnRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "US005",
		Name:            "rename-column",
		Category:        rules.CategoryUnsafe,
		Description:     "Renaming a column breaks running code that uses the old name",
		Help:            "Add a new column, backfill it and drop the old one in a later release",
		DocURL:          docBase + "rename-column",
		DefaultSeverity: rules.SeverityError,
	}
}

// Handlers returns the rule's node handlers.
func (r *RenameColumnRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.RenameStmt) {
			if n.GetRenameType() == pg_query.ObjectType_OBJECT_COLUMN {
				ctx.Reportf("Rename column detected")
			}
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewRenameColumnRule() })
}
