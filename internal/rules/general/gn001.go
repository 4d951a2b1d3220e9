package general

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// TableInheritanceRule flags CREATE TABLE ... INHERITS.
type TableInheritanceRule struct{}

// NewTableInheritanceRule creates a new GN001 rule instance.
func NewTableInheritanceRule() *TableInheritanceRule {
	return &TableInheritanceRule{}
}

// Metadata returns the rule metadata.
func (r *TableInheritanceRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN001",
		Name:            "table-inheritance",
		Category:        rules.CategoryGeneral,
		Description:     "Table inheritance is a legacy feature with surprising semantics",
		Help:            "Use declarative partitioning or foreign keys instead",
		DocURL:          docBase + "table-inheritance",
		DefaultSeverity: rules.SeverityWarning,
	}
}

// Handlers returns the rule's node handlers.
func (r *TableInheritanceRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) {
			// Partitions list their parent in inh_relations too.
			if len(n.GetInhRelations()) == 0 || n.GetPartbound() != nil {
				return
			}
			ctx.Reportf("Table inheritance detected")
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewTableInheritanceRule() })
}
