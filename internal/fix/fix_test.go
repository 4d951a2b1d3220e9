package fix

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

func parseOne(t *testing.T, sql string) (*pg_query.Node, int32) {
	t.Helper()
	tree, err := pg_query.Parse(sql)
	require.NoError(t, err)
	require.Len(t, tree.GetStmts(), 1)
	return tree.GetStmts()[0].GetStmt(), tree.GetVersion()
}

// applyTo walks root and applies fn's result to the first node of kind.
func applyTo(t *testing.T, root *pg_query.Node, kind string, fn func(proto.Message) rules.FixResult) *Pass {
	t.Helper()
	p := NewPass()
	done := false
	ast.Walk(root, func(cur *ast.Cursor) {
		if done || ast.Kind(cur.Message()) != kind {
			return
		}
		done = true
		require.True(t, p.Claim(cur.Message()))
		require.NoError(t, p.Apply(cur, fn(cur.Message())))
	})
	require.True(t, done, "no %s node", kind)
	p.Finish()
	return p
}

func TestPass_ClaimDefersSecondFix(t *testing.T) {
	t.Parallel()
	p := NewPass()
	node := &pg_query.DropStmt{}

	assert.True(t, p.Claim(node))
	assert.False(t, p.Claim(node))
	assert.True(t, p.Claim(&pg_query.DropStmt{}), "distinct nodes are claimed independently")
	assert.Equal(t, 1, p.Deferred())
}

func TestPass_KeepMutatesInPlace(t *testing.T) {
	t.Parallel()
	root, version := parseOne(t, "DROP TABLE a CASCADE")

	applyTo(t, root, "DropStmt", func(m proto.Message) rules.FixResult {
		m.(*pg_query.DropStmt).Behavior = pg_query.DropBehavior_DROP_RESTRICT
		return rules.Keep()
	})

	out, err := Deparse(root, version)
	require.NoError(t, err)
	assert.NotContains(t, out, "CASCADE")
}

func TestPass_ReplaceSameKindMerges(t *testing.T) {
	t.Parallel()
	root, version := parseOne(t, "DROP TABLE a")

	applyTo(t, root, "DropStmt", func(m proto.Message) rules.FixResult {
		repl := proto.Clone(m).(*pg_query.DropStmt)
		repl.MissingOk = true
		return rules.Replace(repl)
	})

	out, err := Deparse(root, version)
	require.NoError(t, err)
	assert.Contains(t, out, "IF EXISTS")
}

func TestPass_ReplaceNodeChangesKind(t *testing.T) {
	t.Parallel()
	root, version := parseOne(t, "SELECT * INTO t FROM s")

	applyTo(t, root, "SelectStmt", func(m proto.Message) rules.FixResult {
		sel := m.(*pg_query.SelectStmt)
		into := sel.GetIntoClause()
		sel.IntoClause = nil
		return rules.Replace(&pg_query.Node{Node: &pg_query.Node_CreateTableAsStmt{
			CreateTableAsStmt: &pg_query.CreateTableAsStmt{
				Query:   &pg_query.Node{Node: &pg_query.Node_SelectStmt{SelectStmt: sel}},
				Into:    into,
				Objtype: pg_query.ObjectType_OBJECT_TABLE,
			},
		}})
	})

	require.NotNil(t, root.GetCreateTableAsStmt())
	out, err := Deparse(root, version)
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE t AS SELECT")
}

func TestPass_ReplaceKindMismatch(t *testing.T) {
	t.Parallel()
	root, _ := parseOne(t, "DROP TABLE a")

	p := NewPass()
	var err error
	ast.Walk(root, func(cur *ast.Cursor) {
		if ast.Kind(cur.Message()) == "DropStmt" {
			err = p.Apply(cur, rules.Replace(&pg_query.SelectStmt{}))
		}
	})
	require.Error(t, err)
}

func TestPass_DeleteListElement(t *testing.T) {
	t.Parallel()
	root, version := parseOne(t, "CREATE TABLE t (a text, b integer, c text)")

	applyTo(t, root, "ColumnDef", func(m proto.Message) rules.FixResult {
		return rules.Delete()
	})

	elts := root.GetCreateStmt().GetTableElts()
	require.Len(t, elts, 2)
	assert.Equal(t, "b", elts[0].GetColumnDef().GetColname())
	assert.Equal(t, "c", elts[1].GetColumnDef().GetColname())

	out, err := Deparse(root, version)
	require.NoError(t, err)
	assert.NotContains(t, out, "a text")
}

func TestPass_DeleteMultipleHighestIndexFirst(t *testing.T) {
	t.Parallel()
	root, _ := parseOne(t, "CREATE TABLE t (a text, b integer, c text, d text)")

	p := NewPass()
	ast.Walk(root, func(cur *ast.Cursor) {
		cd, ok := cur.Message().(*pg_query.ColumnDef)
		if !ok || cd.GetColname() == "c" {
			return
		}
		if cd.GetColname() == "a" || cd.GetColname() == "d" {
			require.NoError(t, p.Apply(cur, rules.Delete()))
		}
	})
	p.Finish()

	elts := root.GetCreateStmt().GetTableElts()
	require.Len(t, elts, 2)
	assert.Equal(t, "b", elts[0].GetColumnDef().GetColname())
	assert.Equal(t, "c", elts[1].GetColumnDef().GetColname())
}

func TestSplice(t *testing.T) {
	t.Parallel()
	src := "DROP TABLE a CASCADE;\nSELECT 1;\n"

	out, err := Splice(src, []Edit{
		{Start: 22, End: 30, Text: "SELECT 2"},
		{Start: 0, End: 20, Text: "DROP TABLE a"},
	})
	require.NoError(t, err)
	assert.Equal(t, "DROP TABLE a;\nSELECT 2;\n", out)
}

func TestSplice_RejectsOverlap(t *testing.T) {
	t.Parallel()
	_, err := Splice("abcdef", []Edit{{Start: 0, End: 3}, {Start: 2, End: 4}})
	require.Error(t, err)

	_, err = Splice("abc", []Edit{{Start: 2, End: 9}})
	require.Error(t, err)
}

func TestVerify(t *testing.T) {
	t.Parallel()
	require.NoError(t, Verify("CREATE TABLE t AS SELECT * FROM s;"))
	require.Error(t, Verify("CREATE TABLE ("))
}

func TestSummary(t *testing.T) {
	t.Parallel()
	var s Summary
	s.Add(&FileChange{
		Path:            "a.sql",
		OriginalContent: []byte("DROP TABLE a CASCADE;"),
		ModifiedContent: []byte("DROP TABLE a;"),
		FixesApplied:    []AppliedFix{{RuleCode: "GN007"}},
	})
	s.Add(&FileChange{
		Path:         "b.sql",
		FixesSkipped: []SkippedFix{{RuleCode: "CT001", Reason: SkipFixpoint}},
	})
	s.Add(nil)

	assert.Equal(t, 1, s.Applied)
	assert.Equal(t, 1, s.Modified)
	require.Len(t, s.Skipped, 1)
	assert.Equal(t, "fixpoint not reached", s.Skipped[0].Reason.String())
}
