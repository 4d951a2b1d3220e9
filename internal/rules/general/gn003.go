package general

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// SelectIntoRule flags SELECT ... INTO, which PostgreSQL treats as table
// creation but reads like PL/pgSQL variable assignment.
type SelectIntoRule struct{}

// NewSelectIntoRule creates a new GN003 rule instance.
func NewSelectIntoRule() *SelectIntoRule {
	return &SelectIntoRule{}
}

// Metadata returns the rule metadata.
func (r *SelectIntoRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN003",
		Name:            "select-into",
		Category:        rules.CategoryGeneral,
		Description:     "SELECT INTO creates a table and is easily confused with PL/pgSQL SELECT INTO",
		Help:            "Use CREATE TABLE ... AS",
		DocURL:          docBase + "select-into",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *SelectIntoRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.SelectStmt) {
			into := n.GetIntoClause()
			if into == nil {
				return
			}
			_, wrapped := ctx.Parent().(*pg_query.CreateTableAsStmt)
			ctx.Report(rules.Finding{
				Message: "SELECT INTO detected",
				// Only a top-level SELECT can become CREATE TABLE AS.
				SkipFix: wrapped || !ctx.IsStatementRoot(),
				Fix: func() rules.FixResult {
					n.IntoClause = nil
					return rules.Replace(&pg_query.Node{Node: &pg_query.Node_CreateTableAsStmt{
						CreateTableAsStmt: &pg_query.CreateTableAsStmt{
							Query:   &pg_query.Node{Node: &pg_query.Node_SelectStmt{SelectStmt: n}},
							Into:    into,
							Objtype: pg_query.ObjectType_OBJECT_TABLE,
						},
					}})
				},
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewSelectIntoRule() })
}
