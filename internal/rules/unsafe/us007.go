package unsafe

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// RenameTableRule flags ALTER TABLE ... RENAME TO.
type RenameTableRule struct{}

// NewRenameTableRule creates a new US007 rule instance.
func NewRenameTableRule() *RenameTableRule {
	return &RenameTableRule{}
}

// Metadata returns the rule metadata.
func (r *RenameTableRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "US007",
		Name:            "rename-table",
		Category:        rules.CategoryUnsafe,
		Description:     "Renaming a table breaks running code that uses the old name",
		Help:            "Create a view with the old name during the transition",
		DocURL:          docBase + "rename-table",
		DefaultSeverity: rules.SeverityError,
	}
}

// Handlers returns the rule's node handlers.
func (r *RenameTableRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.RenameStmt) {
			if n.GetRenameType() == pg_query.ObjectType_OBJECT_TABLE {
				ctx.Reportf("Rename table detected")
			}
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewRenameTableRule() })
}
