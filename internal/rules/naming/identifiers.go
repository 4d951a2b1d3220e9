package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"
	"google.golang.org/protobuf/proto"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// identifierCheck is called with every user-chosen name a statement
// introduces, and the node to report it at.
type identifierCheck func(ctx *rules.Context, kind, name string, node proto.Message)

// identifierHandlers binds check to tables, views, sequences, indexes and
// columns being created.
func identifierHandlers(check identifierCheck) []rules.Handler {
	relation := func(ctx *rules.Context, kind string, rv *pg_query.RangeVar) {
		if rv != nil && rv.GetRelname() != "" {
			check(ctx, kind, rv.GetRelname(), rv)
		}
	}
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) {
			relation(ctx, "Table", n.GetRelation())
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.ViewStmt) {
			relation(ctx, "View", n.GetView())
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.CreateSeqStmt) {
			relation(ctx, "Sequence", n.GetSequence())
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.IndexStmt) {
			if n.GetIdxname() != "" {
				check(ctx, "Index", n.GetIdxname(), n)
			}
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.ColumnDef) {
			if n.GetColname() != "" {
				check(ctx, "Column", n.GetColname(), n)
			}
		}),
	}
}
