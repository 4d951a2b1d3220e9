package unsafe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules/unsafe"
	"github.com/bolajiwahab/pgrubic-sub001/internal/testutil"
)

func TestDropTable(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return unsafe.NewDropTableRule() }, []testutil.RuleTestCase{
		{Name: "drop table", Content: "DROP TABLE a, b;", WantViolations: 1, WantMessages: []string{"Drop table detected"}},
		{Name: "drop view", Content: "DROP VIEW v;", WantViolations: 0},
	})
}

func TestDropColumn(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return unsafe.NewDropColumnRule() }, []testutil.RuleTestCase{
		{Name: "drop column", Content: "ALTER TABLE t DROP COLUMN a;", WantViolations: 1, WantMessages: []string{"Drop column detected"}},
		{Name: "two columns", Content: "ALTER TABLE t DROP COLUMN a, DROP COLUMN b;", WantViolations: 2},
		{Name: "add column", Content: "ALTER TABLE t ADD COLUMN a int;", WantViolations: 0},
	})
}

func TestNotNullColumnWithoutDefault(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return unsafe.NewNotNullColumnWithoutDefaultRule() }, []testutil.RuleTestCase{
		{
			Name:           "not null",
			Content:        "ALTER TABLE t ADD COLUMN a int NOT NULL;",
			WantViolations: 1,
			WantMessages:   []string{"Not null constraint on new column `a` with no static default"},
		},
		{Name: "with default", Content: "ALTER TABLE t ADD COLUMN a int NOT NULL DEFAULT 0;", WantViolations: 0},
		{Name: "identity", Content: "ALTER TABLE t ADD COLUMN id bigint NOT NULL GENERATED ALWAYS AS IDENTITY;", WantViolations: 0},
		{Name: "nullable", Content: "ALTER TABLE t ADD COLUMN a int;", WantViolations: 0},
		{Name: "create table", Content: "CREATE TABLE t (a int NOT NULL);", WantViolations: 0},
	})
}

func TestNonConcurrentIndex(t *testing.T) {
	t.Parallel()
	ctor := func() rules.Rule { return unsafe.NewNonConcurrentIndexRule() }
	testutil.RunRuleTests(t, ctor, []testutil.RuleTestCase{
		{
			Name:           "create index",
			Content:        "CREATE INDEX t_a_idx ON t (a);",
			WantViolations: 1,
			WantMessages:   []string{"Index should be created concurrently"},
		},
		{
			Name:           "drop index",
			Content:        "DROP INDEX t_a_idx;",
			WantViolations: 1,
			WantMessages:   []string{"Index should be dropped concurrently"},
		},
		{Name: "concurrently", Content: "CREATE INDEX CONCURRENTLY t_a_idx ON t (a);", WantViolations: 0},
		{
			Name:           "table created in the same file",
			Content:        "CREATE TABLE t (a int);\nCREATE INDEX t_a_idx ON t (a);",
			WantViolations: 0,
		},
	})

	t.Run("fix", func(t *testing.T) {
		t.Parallel()
		violations, fixed := testutil.Lint(t, "CREATE INDEX t_a_idx ON t (a);\nDROP INDEX t_b_idx;", nil, true, ctor)
		require.Len(t, violations, 2)
		for _, v := range violations {
			assert.True(t, v.IsFixApplied, v.Message)
		}
		assert.Contains(t, fixed, "CREATE INDEX CONCURRENTLY t_a_idx")
		assert.Contains(t, fixed, "DROP INDEX CONCURRENTLY t_b_idx")
		testutil.AssertNoViolations(t, testutil.LintSQL(t, fixed, nil, ctor))
	})
}

func TestRenameColumn(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return unsafe.NewRenameColumnRule() }, []testutil.RuleTestCase{
		{Name: "rename column", Content: "ALTER TABLE t RENAME COLUMN a TO b;", WantViolations: 1, WantMessages: []string{"Rename column detected"}},
		{Name: "rename table", Content: "ALTER TABLE t RENAME TO u;", WantViolations: 0},
	})
}

func TestAlterColumnType(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return unsafe.NewAlterColumnTypeRule() }, []testutil.RuleTestCase{
		{Name: "alter type", Content: "ALTER TABLE t ALTER COLUMN a TYPE bigint;", WantViolations: 1, WantMessages: []string{"Alter column type detected"}},
		{Name: "set default", Content: "ALTER TABLE t ALTER COLUMN a SET DEFAULT 0;", WantViolations: 0},
	})
}

func TestRenameTable(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return unsafe.NewRenameTableRule() }, []testutil.RuleTestCase{
		{Name: "rename table", Content: "ALTER TABLE t RENAME TO u;", WantViolations: 1, WantMessages: []string{"Rename table detected"}},
		{Name: "rename column", Content: "ALTER TABLE t RENAME COLUMN a TO b;", WantViolations: 0},
	})
}

func TestAddConstraintValidated(t *testing.T) {
	t.Parallel()
	ctor := func() rules.Rule { return unsafe.NewAddConstraintValidatedRule() }
	testutil.RunRuleTests(t, ctor, []testutil.RuleTestCase{
		{
			Name:           "foreign key",
			Content:        "ALTER TABLE c ADD CONSTRAINT c_p_fkey FOREIGN KEY (p_id) REFERENCES p (id);",
			WantViolations: 1,
			WantMessages:   []string{"Constraint should be added as NOT VALID"},
		},
		{
			Name:           "check",
			Content:        "ALTER TABLE t ADD CONSTRAINT t_a_check CHECK (a > 0);",
			WantViolations: 1,
		},
		{
			Name:           "not valid",
			Content:        "ALTER TABLE t ADD CONSTRAINT t_a_check CHECK (a > 0) NOT VALID;",
			WantViolations: 0,
		},
		{
			Name:           "unique is not validated later",
			Content:        "ALTER TABLE t ADD CONSTRAINT t_a_key UNIQUE (a);",
			WantViolations: 0,
		},
	})

	t.Run("fix", func(t *testing.T) {
		t.Parallel()
		fixed := testutil.FixSQL(t, "ALTER TABLE t ADD CONSTRAINT t_a_check CHECK (a > 0);", nil, ctor)
		assert.Contains(t, fixed, "NOT VALID")
	})
}
