package general_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules/general"
	"github.com/bolajiwahab/pgrubic-sub001/internal/testutil"
)

func TestTableInheritance(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return general.NewTableInheritanceRule() }, []testutil.RuleTestCase{
		{
			Name:           "inherits",
			Content:        "CREATE TABLE m () INHERITS (p);",
			WantViolations: 1,
			WantMessages:   []string{"Table inheritance detected"},
		},
		{
			Name:           "plain table",
			Content:        "CREATE TABLE m (a int);",
			WantViolations: 0,
		},
		{
			Name:           "partition is not inheritance",
			Content:        "CREATE TABLE m_2024 PARTITION OF m FOR VALUES FROM ('2024-01-01') TO ('2025-01-01');",
			WantViolations: 0,
		},
	})
}

func TestRequiredColumn(t *testing.T) {
	t.Parallel()
	cfg := testutil.ConfigWith(func(l *config.LintConfig) {
		l.RequiredColumns = []config.Column{
			{Name: "created_at", DataType: "timestamptz"},
			{Name: "updated_at", DataType: "timestamptz"},
		}
	})
	ctor := func() rules.Rule { return general.NewRequiredColumnRule() }

	testutil.RunRuleTests(t, ctor, []testutil.RuleTestCase{
		{
			Name:           "both missing",
			Content:        "CREATE TABLE t (id bigint);",
			Config:         cfg,
			WantViolations: 2,
			WantMessages:   []string{"Column `created_at` of type `timestamptz` is required", "updated_at"},
		},
		{
			Name:           "case-insensitive match",
			Content:        "CREATE TABLE t (id bigint, Created_At timestamptz, updated_at timestamptz);",
			Config:         cfg,
			WantViolations: 0,
		},
		{
			Name:           "unconfigured",
			Content:        "CREATE TABLE t (id bigint);",
			WantViolations: 0,
		},
	})

	t.Run("fix appends columns", func(t *testing.T) {
		t.Parallel()
		violations, fixed := testutil.Lint(t, "CREATE TABLE t (id bigint);", cfg, true, ctor)
		require.Len(t, violations, 2)
		for _, v := range violations {
			assert.True(t, v.IsFixApplied, v.Message)
		}
		assert.Contains(t, fixed, "created_at timestamptz")
		assert.Contains(t, fixed, "updated_at timestamptz")
		testutil.AssertNoViolations(t, testutil.LintSQL(t, fixed, cfg, ctor))
	})
}

func TestSelectInto(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return general.NewSelectIntoRule() }, []testutil.RuleTestCase{
		{
			Name:           "select into",
			Content:        "SELECT * INTO t FROM s;",
			WantViolations: 1,
			WantMessages:   []string{"SELECT INTO detected"},
			WantFixed:      "CREATE TABLE t AS SELECT * FROM s;",
		},
		{
			Name:           "create table as",
			Content:        "CREATE TABLE t AS SELECT * FROM s;",
			WantViolations: 0,
		},
	})
}

func TestDuplicateIndex(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return general.NewDuplicateIndexRule() }, []testutil.RuleTestCase{
		{
			Name:           "same columns different names",
			Content:        "CREATE INDEX a_idx ON t (a);\nCREATE INDEX b_idx ON t (a);",
			WantViolations: 1,
			WantMessages:   []string{"Duplicate index detected"},
		},
		{
			Name:           "different access method",
			Content:        "CREATE INDEX ON t (a);\nCREATE INDEX ON t USING hash (a);",
			WantViolations: 0,
		},
		{
			Name:           "explicit btree equals default",
			Content:        "CREATE INDEX ON t (a);\nCREATE INDEX ON t USING btree (a);",
			WantViolations: 1,
		},
		{
			Name:           "partial index differs",
			Content:        "CREATE INDEX ON t (a);\nCREATE INDEX ON t (a) WHERE a > 0;",
			WantViolations: 0,
		},
		{
			Name:           "different tables",
			Content:        "CREATE INDEX ON t (a);\nCREATE INDEX ON u (a);",
			WantViolations: 0,
		},
	})
}

func TestDisallowedExtension(t *testing.T) {
	t.Parallel()
	cfg := testutil.ConfigWith(func(l *config.LintConfig) {
		l.AllowedExtensions = []string{"pgcrypto"}
	})
	testutil.RunRuleTests(t, func() rules.Rule { return general.NewDisallowedExtensionRule() }, []testutil.RuleTestCase{
		{
			Name:           "not allowed",
			Content:        "CREATE EXTENSION hstore;",
			Config:         cfg,
			WantViolations: 1,
			WantMessages:   []string{"Extension `hstore` is not allowed"},
		},
		{
			Name:           "allowed",
			Content:        "CREATE EXTENSION IF NOT EXISTS PGCRYPTO;",
			Config:         cfg,
			WantViolations: 0,
		},
		{
			Name:           "no allow list",
			Content:        "CREATE EXTENSION hstore;",
			WantViolations: 0,
		},
	})
}

func TestDisallowedLanguage(t *testing.T) {
	t.Parallel()
	cfg := testutil.ConfigWith(func(l *config.LintConfig) {
		l.AllowedLanguages = []string{"sql"}
	})
	testutil.RunRuleTests(t, func() rules.Rule { return general.NewDisallowedLanguageRule() }, []testutil.RuleTestCase{
		{
			Name:           "plpgsql function",
			Content:        "CREATE FUNCTION f() RETURNS int LANGUAGE plpgsql AS $$ BEGIN RETURN 1; END $$;",
			Config:         cfg,
			WantViolations: 1,
			WantMessages:   []string{"Language `plpgsql` is not allowed"},
		},
		{
			Name:           "sql function",
			Content:        "CREATE FUNCTION f() RETURNS int LANGUAGE sql AS $$ SELECT 1 $$;",
			Config:         cfg,
			WantViolations: 0,
		},
		{
			Name:           "do block defaults to plpgsql",
			Content:        "DO $$ BEGIN PERFORM 1; END $$;",
			Config:         cfg,
			WantViolations: 1,
		},
	})
}

func TestDropCascade(t *testing.T) {
	t.Parallel()
	ctor := func() rules.Rule { return general.NewDropCascadeRule() }
	testutil.RunRuleTests(t, ctor, []testutil.RuleTestCase{
		{
			Name:           "drop table cascade",
			Content:        "DROP TABLE a CASCADE;",
			WantViolations: 1,
			WantMessages:   []string{"Drop cascade detected"},
		},
		{
			Name:           "drop column cascade",
			Content:        "ALTER TABLE a DROP COLUMN b CASCADE;",
			WantViolations: 1,
		},
		{
			Name:           "restrict",
			Content:        "DROP TABLE a;",
			WantViolations: 0,
		},
	})

	t.Run("fix", func(t *testing.T) {
		t.Parallel()
		fixed := testutil.FixSQL(t, "DROP TABLE a CASCADE;", nil, ctor)
		assert.NotContains(t, fixed, "CASCADE")
		assert.True(t, strings.HasPrefix(fixed, "DROP TABLE a"), fixed)
	})
}

func TestMissingIfExists(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return general.NewMissingIfExistsRule() }, []testutil.RuleTestCase{
		{
			Name:           "drop table",
			Content:        "DROP TABLE a;",
			WantViolations: 1,
			WantMessages:   []string{"Missing IF EXISTS"},
			WantFixed:      "DROP TABLE IF EXISTS a;",
		},
		{
			Name:           "already present",
			Content:        "DROP INDEX IF EXISTS a_idx;",
			WantViolations: 0,
		},
	})
}

func TestMissingIfNotExists(t *testing.T) {
	t.Parallel()
	ctor := func() rules.Rule { return general.NewMissingIfNotExistsRule() }
	testutil.RunRuleTests(t, ctor, []testutil.RuleTestCase{
		{
			Name:           "create table",
			Content:        "CREATE TABLE t (a text);",
			WantViolations: 1,
			WantMessages:   []string{"Missing IF NOT EXISTS"},
			WantFixed:      "CREATE TABLE IF NOT EXISTS t (a text);",
		},
		{
			Name:           "create sequence",
			Content:        "CREATE SEQUENCE s;",
			WantViolations: 1,
		},
		{
			Name:           "create schema",
			Content:        "CREATE SCHEMA app;",
			WantViolations: 1,
		},
		{
			Name:           "present",
			Content:        "CREATE TABLE IF NOT EXISTS t (a text);",
			WantViolations: 0,
		},
	})

	t.Run("unnamed index is not fixed", func(t *testing.T) {
		t.Parallel()
		violations, fixed := testutil.Lint(t, "CREATE INDEX ON t (a);", nil, true, ctor)
		require.Len(t, violations, 1)
		assert.False(t, violations[0].IsFixApplied)
		assert.Equal(t, "CREATE INDEX ON t (a);", fixed)
	})
}

func TestNullComparison(t *testing.T) {
	t.Parallel()
	ctor := func() rules.Rule { return general.NewNullComparisonRule() }
	testutil.RunRuleTests(t, ctor, []testutil.RuleTestCase{
		{
			Name:           "equals null",
			Content:        "SELECT * FROM t WHERE a = NULL;",
			WantViolations: 1,
			WantMessages:   []string{"Comparison with NULL"},
			WantFixed:      "SELECT * FROM t WHERE a IS NULL;",
		},
		{
			Name:           "null on the left",
			Content:        "SELECT * FROM t WHERE NULL <> a;",
			WantViolations: 1,
			WantFixed:      "SELECT * FROM t WHERE a IS NOT NULL;",
		},
		{
			Name:           "is null",
			Content:        "SELECT * FROM t WHERE a IS NULL;",
			WantViolations: 0,
		},
		{
			Name:           "other operator",
			Content:        "SELECT * FROM t WHERE a > 1;",
			WantViolations: 0,
		},
	})

	t.Run("null equals null is not fixed", func(t *testing.T) {
		t.Parallel()
		violations, _ := testutil.Lint(t, "SELECT NULL = NULL;", nil, true, ctor)
		require.Len(t, violations, 1)
		assert.False(t, violations[0].IsFixApplied)
	})
}
