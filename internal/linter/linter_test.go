package linter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolajiwahab/pgrubic-sub001/internal/cache"
	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fileval"
	"github.com/bolajiwahab/pgrubic-sub001/internal/fix"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules/constraint"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules/general"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules/typing"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules/unsafe"
	"github.com/bolajiwahab/pgrubic-sub001/internal/sourcemap"
)

func only(ctors ...func() rules.Rule) func() ([]rules.Rule, error) {
	return func() ([]rules.Rule, error) {
		set := make([]rules.Rule, 0, len(ctors))
		for _, c := range ctors {
			set = append(set, c())
		}
		return set, nil
	}
}

func gn001() rules.Rule { return general.NewTableInheritanceRule() }
func gn003() rules.Rule { return general.NewSelectIntoRule() }
func gn004() rules.Rule { return general.NewDuplicateIndexRule() }
func gn007() rules.Rule { return general.NewDropCascadeRule() }
func ct001() rules.Rule { return constraint.NewCascadeDeleteRule() }
func tp003() rules.Rule { return typing.NewVarcharRule() }
func tp007() rules.Rule { return typing.NewDisallowedDataTypeRule() }
func us001() rules.Rule { return unsafe.NewDropTableRule() }

// brokenFixRule reports every table and breaks it when fixing.
type brokenFixRule struct {
	fix func(n *pg_query.CreateStmt) rules.FixResult
}

func (r *brokenFixRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "XX001",
		Name:            "broken-fix",
		Category:        rules.CategoryGeneral,
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

func (r *brokenFixRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) {
			ctx.Report(rules.Finding{
				Message: "Table " + n.GetRelation().GetRelname(),
				Fix:     func() rules.FixResult { return r.fix(n) },
			})
		}),
	}
}

func lint(t *testing.T, opts Options, sql string) *Result {
	t.Helper()
	res, err := New(opts).LintSource("test.sql", []byte(sql))
	require.NoError(t, err)
	return res
}

func codes(violations []rules.Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.RuleCode)
	}
	return out
}

func TestBareNoqaSuppressesStatement(t *testing.T) {
	t.Parallel()
	res := lint(t, Options{Rules: only(gn001)}, "-- noqa\nCREATE TABLE m () INHERITS (p);\n")

	assert.Empty(t, res.Violations)
	require.Len(t, res.Directives, 1)
	assert.True(t, res.Directives[0].Used)
}

func TestNoqaForOtherRuleIsUnused(t *testing.T) {
	t.Parallel()
	res := lint(t, Options{Rules: only(gn001)}, "-- noqa: GN002\nCREATE TABLE m () INHERITS (p);\n")

	require.Len(t, res.Violations, 2)
	assert.Equal(t, "GN001", res.Violations[0].RuleCode)
	assert.Equal(t, "Table inheritance detected", res.Violations[0].Message)
	assert.Equal(t, rules.CodeUnusedDirective, res.Violations[1].RuleCode)
	assert.Contains(t, res.Violations[1].Message, "GN002")
}

func TestSelectIntoFix(t *testing.T) {
	t.Parallel()
	opts := Options{Rules: only(gn003), Fix: true}
	res := lint(t, opts, "SELECT * INTO t FROM s;\n")

	require.Len(t, res.Violations, 1)
	assert.True(t, res.Violations[0].IsFixApplied)
	require.NotNil(t, res.FixedSource)
	assert.Equal(t, "CREATE TABLE t AS SELECT * FROM s;\n", string(res.FixedSource))
	require.NotNil(t, res.Change)
	assert.True(t, res.Change.HasChanges())
	assert.Len(t, res.Change.FixesApplied, 1)

	again := lint(t, opts, string(res.FixedSource))
	assert.Empty(t, again.Violations)
	assert.Nil(t, again.FixedSource)
}

func TestCascadeDeleteFix(t *testing.T) {
	t.Parallel()
	res := lint(t, Options{Rules: only(ct001), Fix: true},
		"CREATE TABLE c (p_id int REFERENCES p (id) ON DELETE CASCADE);\n")

	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, "CT001", v.RuleCode)
	assert.True(t, v.IsFixApplied)
	require.NotNil(t, res.FixedSource)
	assert.Contains(t, string(res.FixedSource), "ON DELETE RESTRICT")
	assert.NotContains(t, string(res.FixedSource), "CASCADE")
}

func TestDuplicateIndexReportedOnSecond(t *testing.T) {
	t.Parallel()
	res := lint(t, Options{Rules: only(gn004)},
		"CREATE INDEX ON t (a);\nCREATE INDEX ON t (a);\n")

	require.Len(t, res.Violations, 1)
	assert.Equal(t, "GN004", res.Violations[0].RuleCode)
	assert.Equal(t, 2, res.Violations[0].Line())
	assert.Equal(t, len("CREATE INDEX ON t (a);"), res.Violations[0].StatementLocation)
}

func TestCachedRunReplaysDiagnostics(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.sql")
	require.NoError(t, os.WriteFile(path, []byte("CREATE TABLE m () INHERITS (p);\nDROP TABLE x;\n"), 0o644))

	c, err := cache.Open(filepath.Join(dir, "cache"), cache.NamespaceLint, "test", "cfg")
	require.NoError(t, err)

	parses := 0
	opts := Options{Rules: only(gn001, us001), Cache: c, OnParse: func() { parses++ }}

	first, err := New(opts).LintFile(context.Background(), path)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Equal(t, 2, parses)
	require.NoError(t, c.Flush())

	reopened, err := cache.Open(filepath.Join(dir, "cache"), cache.NamespaceLint, "test", "cfg")
	require.NoError(t, err)
	opts.Cache = reopened

	second, err := New(opts).LintFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, 2, parses, "a cache hit must not parse")
	assert.Equal(t, first.Violations, second.Violations)
}

func TestLintFileWritesFixes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "drop.sql")
	require.NoError(t, os.WriteFile(path, []byte("-- cleanup\nDROP TABLE a CASCADE;\n"), 0o644))

	res, err := New(Options{Rules: only(gn007), Fix: true}).LintFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)
	assert.True(t, res.Violations[0].IsFixApplied)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "-- cleanup\nDROP TABLE a"), string(content))
	assert.NotContains(t, string(content), "CASCADE")
}

func TestParseErrorAtCursor(t *testing.T) {
	t.Parallel()
	res := lint(t, Options{Rules: only(gn001)}, "SELECT 1;\nCREATE TABEL t ();\n")

	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, rules.CodeParseError, v.RuleCode)
	assert.Equal(t, 2, v.Line())
	assert.Equal(t, len("CREATE "), v.Column())
}

func TestMissingSemicolon(t *testing.T) {
	t.Parallel()
	res := lint(t, Options{Rules: only(gn001)}, "CREATE TABLE m () INHERITS (p);\nSELECT 1")

	assert.Equal(t, []string{"GN001", rules.CodeParseError}, codes(res.Violations))
	assert.Equal(t, 2, res.Violations[1].Line())
}

func TestNonUTF8SourceRejected(t *testing.T) {
	t.Parallel()
	_, err := New(Options{Rules: only(gn001)}).LintSource("latin1.sql", []byte("SELECT 'caf\xe9';\n"))

	var utfErr *fileval.NotUTF8Error
	require.ErrorAs(t, err, &utfErr)
	assert.Equal(t, "latin1.sql", utfErr.Path)
}

func TestNonFixableRulesNeverFix(t *testing.T) {
	t.Parallel()
	res := lint(t, Options{Rules: only(gn001, us001), Fix: true},
		"CREATE TABLE m () INHERITS (p);\nDROP TABLE x;\n")

	assert.Len(t, res.Violations, 2)
	for _, v := range res.Violations {
		assert.False(t, v.IsFixApplied)
	}
	assert.Nil(t, res.FixedSource)
}

func TestFixSkippedUnderNoqa(t *testing.T) {
	t.Parallel()
	res := lint(t, Options{Rules: only(gn007), Fix: true}, "-- noqa: GN007\nDROP TABLE a CASCADE;\n")

	assert.Empty(t, res.Violations)
	assert.Nil(t, res.FixedSource)
	require.Len(t, res.Directives, 1)
	assert.True(t, res.Directives[0].Used)
}

func TestInteractingFixesConverge(t *testing.T) {
	t.Parallel()
	src := "CREATE TABLE c (\n  name varchar(20),\n  p_id int REFERENCES p (id) ON DELETE CASCADE\n);\n"
	opts := Options{Rules: only(ct001, tp003), Fix: true}
	res := lint(t, opts, src)

	require.Len(t, res.Violations, 2)
	for _, v := range res.Violations {
		assert.True(t, v.IsFixApplied, v.RuleCode)
	}
	require.NotNil(t, res.FixedSource)

	again := lint(t, opts, string(res.FixedSource))
	assert.Empty(t, again.Violations, "fixing is idempotent")
}

func TestCoordinatesWithinSource(t *testing.T) {
	t.Parallel()
	src := "CREATE TABLE m () INHERITS (p);\n\n  -- note\nCREATE TABLE c (a varchar, p_id int REFERENCES p ON DELETE CASCADE);\nDROP TABLE m;\n"
	res := lint(t, Options{Config: config.Default()}, src)
	lines := sourcemap.New([]byte(src)).LineCount()

	require.NotEmpty(t, res.Violations)
	for _, v := range res.Violations {
		assert.GreaterOrEqual(t, v.Column(), 0, v.RuleCode)
		assert.GreaterOrEqual(t, v.Line(), 1, v.RuleCode)
		assert.LessOrEqual(t, v.Line(), lines, v.RuleCode)
	}
}

func TestLintFilesKeepsOrder(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.sql", "a.sql", "b.sql"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("DROP TABLE "+strings.TrimSuffix(name, ".sql")+";\n"), 0o644))
		paths = append(paths, p)
	}
	paths = append(paths, filepath.Join(dir, "missing.sql"))

	results, err := New(Options{Rules: only(us001), Jobs: 2}).LintFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, 4)
	for i, p := range paths[:3] {
		assert.Equal(t, p, results[i].Path)
		assert.NoError(t, results[i].Err)
		assert.Len(t, results[i].Violations, 1)
	}
	assert.Error(t, results[3].Err)
}

func TestLintFilesCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(Options{Rules: only(us001)}).LintFiles(ctx, []string{"a.sql"})
	assert.True(t, IsCanceled(err))
	assert.Empty(t, results)
}

func TestFixKeepsStatementsWithComments(t *testing.T) {
	t.Parallel()
	src := "CREATE TABLE t (\n a varchar, -- noqa: TP003\n b varchar\n);\n"
	opts := Options{Rules: only(tp003), Fix: true}

	for run := 1; run <= 2; run++ {
		res := lint(t, opts, src)

		require.Len(t, res.Violations, 1, "run %d", run)
		v := res.Violations[0]
		assert.Equal(t, "TP003", v.RuleCode)
		assert.Equal(t, 3, v.Line())
		assert.False(t, v.IsFixApplied)
		assert.Nil(t, res.FixedSource, "run %d", run)

		require.NotNil(t, res.Change)
		require.Len(t, res.Change.FixesSkipped, 1)
		assert.Equal(t, fix.SkipComments, res.Change.FixesSkipped[0].Reason)
		require.Len(t, res.Directives, 1)
		assert.True(t, res.Directives[0].Used)
	}
}

func TestFixKeepsTrailingComment(t *testing.T) {
	t.Parallel()
	opts := Options{Rules: only(gn007), Fix: true}
	res := lint(t, opts, "-- drop it\nDROP TABLE a CASCADE; -- legacy\n")

	require.Len(t, res.Violations, 1)
	assert.True(t, res.Violations[0].IsFixApplied)
	require.NotNil(t, res.FixedSource)
	fixed := string(res.FixedSource)
	assert.True(t, strings.HasPrefix(fixed, "-- drop it\nDROP TABLE a"), fixed)
	assert.True(t, strings.HasSuffix(fixed, "; -- legacy\n"), fixed)
	assert.NotContains(t, fixed, "CASCADE")

	again := lint(t, opts, string(res.FixedSource))
	assert.Empty(t, again.Violations)
	assert.Nil(t, again.FixedSource)
}

func TestFixpointNotReached(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Lint.DisallowedDataTypes = []config.DisallowedObject{
		{Name: "text", Reason: "x", UseInstead: "varchar"},
	}
	res := lint(t, Options{Config: cfg, Rules: only(tp003, tp007), Fix: true}, "CREATE TABLE t (a varchar);\n")

	assert.Equal(t, []string{"TP003", rules.CodeFixpointNotReached}, codes(res.Violations))
	assert.Equal(t, "Prefer text over varchar", res.Violations[0].Message)
	for _, v := range res.Violations {
		assert.False(t, v.IsFixApplied, v.RuleCode)
	}
	assert.Nil(t, res.FixedSource)

	require.NotNil(t, res.Change)
	assert.False(t, res.Change.HasChanges())
	require.Len(t, res.Change.FixesSkipped, 1)
	assert.Equal(t, "TP003", res.Change.FixesSkipped[0].RuleCode)
	assert.Equal(t, fix.SkipFixpoint, res.Change.FixesSkipped[0].Reason)
}

func TestFixErrorKeepsSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		wantSkipped int
		fix         func(n *pg_query.CreateStmt) rules.FixResult
	}{
		{
			name: "replacement of another kind",
			fix:  func(*pg_query.CreateStmt) rules.FixResult { return rules.Replace(&pg_query.RangeVar{}) },
		},
		{
			name:        "unprintable tree",
			wantSkipped: 1,
			fix: func(n *pg_query.CreateStmt) rules.FixResult {
				n.Relation.Relname = ""
				return rules.Keep()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctor := func() rules.Rule { return &brokenFixRule{fix: tt.fix} }
			res := lint(t, Options{Rules: only(ctor), Fix: true}, "CREATE TABLE t (a int);\n")

			assert.Equal(t, []string{"XX001", rules.CodeInternalFixError}, codes(res.Violations))
			assert.Equal(t, "Table t", res.Violations[0].Message)
			assert.False(t, res.Violations[0].IsFixApplied)
			assert.Nil(t, res.FixedSource)

			require.NotNil(t, res.Change)
			assert.False(t, res.Change.HasChanges())
			require.Len(t, res.Change.FixesSkipped, tt.wantSkipped)
			for _, skipped := range res.Change.FixesSkipped {
				assert.Equal(t, fix.SkipFailed, skipped.Reason)
				assert.NotEmpty(t, skipped.Error)
			}
		})
	}
}
