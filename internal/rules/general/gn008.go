package general

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// MissingIfExistsRule flags DROP statements that fail when the object is
// already gone, which breaks re-runnable migrations.
type MissingIfExistsRule struct{}

// NewMissingIfExistsRule creates a new GN008 rule instance.
func NewMissingIfExistsRule() *MissingIfExistsRule {
	return &MissingIfExistsRule{}
}

// Metadata returns the rule metadata.
func (r *MissingIfExistsRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN008",
		Name:            "missing-if-exists",
		Category:        rules.CategoryGeneral,
		Description:     "DROP without IF EXISTS is not idempotent",
		Help:            "Use DROP ... IF EXISTS",
		DocURL:          docBase + "missing-if-exists",
		DefaultSeverity: rules.SeverityStyle,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *MissingIfExistsRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.DropStmt) {
			if n.GetMissingOk() {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Missing IF EXISTS",
				Fix: func() rules.FixResult {
					n.MissingOk = true
					return rules.Keep()
				},
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewMissingIfExistsRule() })
}
