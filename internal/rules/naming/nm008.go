package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// InvalidPartitionNameRule checks partition names against
// lint.regex-partition.
type InvalidPartitionNameRule struct{}

// NewInvalidPartitionNameRule creates a new NM008 rule instance.
func NewInvalidPartitionNameRule() *InvalidPartitionNameRule {
	return &InvalidPartitionNameRule{}
}

// Metadata returns the rule metadata.
func (r *InvalidPartitionNameRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "NM008",
		Name:            "invalid-partition-name",
		Category:        rules.CategoryNaming,
		Description:     "Partition names must match lint.regex-partition",
		DocURL:          docBase + "invalid-partition-name",
		DefaultSeverity: rules.SeverityStyle,
	}
}

// Handlers returns the rule's node handlers.
func (r *InvalidPartitionNameRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) {
			if n.GetPartbound() == nil {
				return
			}
			checkName(ctx, "Partition", n.GetRelation().GetRelname(), ctx.Lint().RegexPartition)
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewInvalidPartitionNameRule() })
}
