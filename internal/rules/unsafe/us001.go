package unsafe

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// DropTableRule flags DROP TABLE.
type DropTableRule struct{}

// NewDropTableRule creates a new US001 rule instance.
func NewDropTableRule() *DropTableRule {
	return &DropTableRule{}
}

// Metadata returns the rule metadata.
func (r *DropTableRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "US001",
		Name:            "drop-table",
		Category:        rules.CategoryUnsafe,
		Description:     "Dropping a table loses its data",
		Help:            "Make sure the data is no longer needed, or back it up first",
		DocURL:          docBase + "drop-table",
		DefaultSeverity: rules.SeverityError,
	}
}

// Handlers returns the rule's node handlers.
func (r *DropTableRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.DropStmt) {
			if n.GetRemoveType() == pg_query.ObjectType_OBJECT_TABLE {
				ctx.Reportf("Drop table detected")
			}
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewDropTableRule() })
}
