package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// InvalidIndexNameRule checks index names against lint.regex-index.
type InvalidIndexNameRule struct{}

// NewInvalidIndexNameRule creates a new NM001 rule instance.
func NewInvalidIndexNameRule() *InvalidIndexNameRule {
	return &InvalidIndexNameRule{}
}

// Metadata returns the rule metadata.
func (r *InvalidIndexNameRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "NM001",
		Name:            "invalid-index-name",
		Category:        rules.CategoryNaming,
		Description:     "Index names must match lint.regex-index",
		DocURL:          docBase + "invalid-index-name",
		DefaultSeverity: rules.SeverityStyle,
	}
}

// Handlers returns the rule's node handlers.
func (r *InvalidIndexNameRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.IndexStmt) {
			checkName(ctx, "Index", n.GetIdxname(), ctx.Lint().RegexIndex)
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewInvalidIndexNameRule() })
}
