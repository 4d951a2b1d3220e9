package general

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// MissingIfNotExistsRule flags CREATE statements that fail when the object
// already exists.
type MissingIfNotExistsRule struct{}

// NewMissingIfNotExistsRule creates a new GN009 rule instance.
func NewMissingIfNotExistsRule() *MissingIfNotExistsRule {
	return &MissingIfNotExistsRule{}
}

// Metadata returns the rule metadata.
func (r *MissingIfNotExistsRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN009",
		Name:            "missing-if-not-exists",
		Category:        rules.CategoryGeneral,
		Description:     "CREATE without IF NOT EXISTS is not idempotent",
		Help:            "Use CREATE ... IF NOT EXISTS",
		DocURL:          docBase + "missing-if-not-exists",
		DefaultSeverity: rules.SeverityStyle,
		IsAutoFixable:   true,
	}
}

const missingIfNotExists = "Missing IF NOT EXISTS"

// Handlers returns the rule's node handlers.
func (r *MissingIfNotExistsRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) {
			if n.GetIfNotExists() {
				return
			}
			ctx.Report(rules.Finding{Message: missingIfNotExists, Fix: func() rules.FixResult {
				n.IfNotExists = true
				return rules.Keep()
			}})
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.IndexStmt) {
			if n.GetIfNotExists() {
				return
			}
			ctx.Report(rules.Finding{
				Message: missingIfNotExists,
				// IF NOT EXISTS requires an index name.
				SkipFix: n.GetIdxname() == "",
				Fix: func() rules.FixResult {
					n.IfNotExists = true
					return rules.Keep()
				},
			})
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.CreateSeqStmt) {
			if n.GetIfNotExists() {
				return
			}
			ctx.Report(rules.Finding{Message: missingIfNotExists, Fix: func() rules.FixResult {
				n.IfNotExists = true
				return rules.Keep()
			}})
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.CreateSchemaStmt) {
			if n.GetIfNotExists() {
				return
			}
			ctx.Report(rules.Finding{
				Message: missingIfNotExists,
				// IF NOT EXISTS cannot be combined with schema elements.
				SkipFix: len(n.GetSchemaElts()) > 0,
				Fix: func() rules.FixResult {
					n.IfNotExists = true
					return rules.Keep()
				},
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewMissingIfNotExistsRule() })
}
