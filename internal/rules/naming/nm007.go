package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// InvalidSequenceNameRule checks sequence names against lint.regex-sequence.
type InvalidSequenceNameRule struct{}

// NewInvalidSequenceNameRule creates a new NM007 rule instance.
func NewInvalidSequenceNameRule() *InvalidSequenceNameRule {
	return &InvalidSequenceNameRule{}
}

// Metadata returns the rule metadata.
func (r *InvalidSequenceNameRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "NM007",
		Name:            "invalid-sequence-name",
		Category:        rules.CategoryNaming,
		Description:     "Sequence names must match lint.regex-sequence",
		DocURL:          docBase + "invalid-sequence-name",
		DefaultSeverity: rules.SeverityStyle,
	}
}

// Handlers returns the rule's node handlers.
func (r *InvalidSequenceNameRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateSeqStmt) {
			checkName(ctx, "Sequence", n.GetSequence().GetRelname(), ctx.Lint().RegexSequence)
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewInvalidSequenceNameRule() })
}
