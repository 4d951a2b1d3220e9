package general

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// DuplicateIndexRule flags an index identical to one created earlier in
// the same file.
type DuplicateIndexRule struct {
	// seen maps an index fingerprint to the statement that first created it.
	seen map[string]int
}

// NewDuplicateIndexRule creates a new GN004 rule instance.
func NewDuplicateIndexRule() *DuplicateIndexRule {
	return &DuplicateIndexRule{seen: make(map[string]int)}
}

// Metadata returns the rule metadata.
func (r *DuplicateIndexRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN004",
		Name:            "duplicate-index",
		Category:        rules.CategoryGeneral,
		Description:     "Duplicate indexes slow down writes and waste space",
		Help:            "Remove the duplicate index",
		DocURL:          docBase + "duplicate-index",
		DefaultSeverity: rules.SeverityWarning,
	}
}

// Handlers returns the rule's node handlers.
func (r *DuplicateIndexRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.IndexStmt) {
			method := n.GetAccessMethod()
			if method == "" {
				method = "btree"
			}
			fp := ast.Fingerprint(
				n.GetRelation(),
				&pg_query.List{Items: n.GetIndexParams()},
				&pg_query.List{Items: n.GetIndexIncludingParams()},
				n.GetWhereClause(),
				&pg_query.String{Sval: method},
			)

			first, ok := r.seen[fp]
			if !ok {
				r.seen[fp] = ctx.StatementLocation()
				return
			}
			// The fix loop re-dispatches statements; never match an index
			// against itself.
			if first == ctx.StatementLocation() {
				return
			}
			ctx.Reportf("Duplicate index detected")
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewDuplicateIndexRule() })
}
