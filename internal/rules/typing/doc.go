// Package typing implements rules about column data types.
//
// Every rule inspects the type of a column definition, which covers CREATE
// TABLE, ALTER TABLE ADD COLUMN and ALTER COLUMN TYPE alike.
package typing

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

const docBase = "https://github.com/bolajiwahab/pgrubic/blob/main/docs/rules/typing/"

// retype rewrites tn to the given name parts, optionally keeping the type
// modifiers (e.g. timestamp precision). Array bounds are kept. Types whose
// names are SQL keywords, such as numeric, need the pg_catalog qualifier or
// the printer quotes them.
func retype(tn *pg_query.TypeName, keepTypmods bool, names ...string) rules.FixFunc {
	return func() rules.FixResult {
		tn.Names = make([]*pg_query.Node, 0, len(names))
		for _, name := range names {
			tn.Names = append(tn.Names, ast.MakeString(name))
		}
		if !keepTypmods {
			tn.Typmods = nil
		}
		tn.Typemod = -1
		return rules.Keep()
	}
}

// onColumnType builds a handler calling fn with the type of every column
// definition.
func onColumnType(fn func(ctx *rules.Context, col *pg_query.ColumnDef, tn *pg_query.TypeName)) rules.Handler {
	return rules.On(func(ctx *rules.Context, n *pg_query.ColumnDef) {
		if tn := n.GetTypeName(); tn != nil {
			fn(ctx, n, tn)
		}
	})
}
