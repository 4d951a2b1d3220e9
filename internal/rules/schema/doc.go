// Package schema implements rules about the schemas objects are created in.
package schema

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

const docBase = "https://github.com/bolajiwahab/pgrubic/blob/main/docs/rules/schema/"

// object is a created database object. setSchema is nil when the schema
// cannot be rewritten in place.
type object struct {
	name      string
	schema    string
	setSchema func(string)
}

func relationObject(rv *pg_query.RangeVar) (object, bool) {
	if rv == nil || rv.GetRelname() == "" {
		return object{}, false
	}
	// Temporary objects live in pg_temp whatever the statement says.
	if rv.GetRelpersistence() == "t" {
		return object{}, false
	}
	return object{
		name:      ast.RangeVarName(rv),
		schema:    rv.GetSchemaname(),
		setSchema: func(s string) { rv.Schemaname = s },
	}, true
}

func functionObject(n *pg_query.CreateFunctionStmt) (object, bool) {
	names := n.GetFuncname()
	if len(names) == 0 {
		return object{}, false
	}
	o := object{name: ast.QualifiedName(names)}
	if len(names) > 1 {
		o.schema = ast.StringValue(names[len(names)-2])
		o.setSchema = func(s string) { names[len(names)-2] = ast.MakeString(s) }
	} else {
		o.setSchema = func(s string) {
			n.Funcname = append([]*pg_query.Node{ast.MakeString(s)}, n.Funcname...)
		}
	}
	return o, true
}

// objectHandlers binds check to every statement creating a table, view,
// sequence, function or index. For indexes the checked object is the
// indexed relation, since an index always lives in its table's schema.
func objectHandlers(check func(ctx *rules.Context, o object)) []rules.Handler {
	rel := func(ctx *rules.Context, rv *pg_query.RangeVar) {
		if o, ok := relationObject(rv); ok {
			check(ctx, o)
		}
	}
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) { rel(ctx, n.GetRelation()) }),
		rules.On(func(ctx *rules.Context, n *pg_query.CreateTableAsStmt) { rel(ctx, n.GetInto().GetRel()) }),
		rules.On(func(ctx *rules.Context, n *pg_query.ViewStmt) { rel(ctx, n.GetView()) }),
		rules.On(func(ctx *rules.Context, n *pg_query.CreateSeqStmt) { rel(ctx, n.GetSequence()) }),
		rules.On(func(ctx *rules.Context, n *pg_query.IndexStmt) {
			if o, ok := relationObject(n.GetRelation()); ok {
				// Moving the index means moving its table.
				o.setSchema = nil
				check(ctx, o)
			}
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.CreateFunctionStmt) {
			if o, ok := functionObject(n); ok {
				check(ctx, o)
			}
		}),
	}
}
