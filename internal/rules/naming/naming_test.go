package naming_test

import (
	"testing"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules/naming"
	"github.com/bolajiwahab/pgrubic-sub001/internal/testutil"
)

func TestInvalidIndexName(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return naming.NewInvalidIndexNameRule() }, []testutil.RuleTestCase{
		{
			Name:           "bad name",
			Content:        "CREATE INDEX ix_a ON t (a);",
			WantViolations: 1,
			WantMessages:   []string{"Index `ix_a` does not match regex `^[a-z0-9_]+_idx$`"},
		},
		{
			Name:           "good name",
			Content:        "CREATE INDEX t_a_idx ON t (a);",
			WantViolations: 0,
		},
		{
			Name:           "unnamed",
			Content:        "CREATE INDEX ON t (a);",
			WantViolations: 0,
		},
		{
			Name:    "configured pattern",
			Content: "CREATE INDEX ix_a ON t (a);",
			Config: testutil.ConfigWith(func(l *config.LintConfig) {
				l.RegexIndex = "^ix_"
			}),
			WantViolations: 0,
		},
		{
			Name:    "empty pattern disables",
			Content: "CREATE INDEX Whatever ON t (a);",
			Config: testutil.ConfigWith(func(l *config.LintConfig) {
				l.RegexIndex = ""
			}),
			WantViolations: 0,
		},
	})
}

func TestConstraintNames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		ctor  rules.Constructor
		bad   string
		good  string
		label string
	}{
		{
			name:  "primary key",
			ctor:  naming.NewInvalidPrimaryKeyNameRule,
			bad:   "CREATE TABLE t (id int CONSTRAINT pk_t PRIMARY KEY);",
			good:  "CREATE TABLE t (id int CONSTRAINT t_pkey PRIMARY KEY);",
			label: "Primary key `pk_t`",
		},
		{
			name:  "unique key",
			ctor:  naming.NewInvalidUniqueKeyNameRule,
			bad:   "ALTER TABLE t ADD CONSTRAINT uq_a UNIQUE (a);",
			good:  "ALTER TABLE t ADD CONSTRAINT t_a_key UNIQUE (a);",
			label: "Unique key `uq_a`",
		},
		{
			name:  "foreign key",
			ctor:  naming.NewInvalidForeignKeyNameRule,
			bad:   "ALTER TABLE c ADD CONSTRAINT fk_p FOREIGN KEY (p_id) REFERENCES p (id);",
			good:  "ALTER TABLE c ADD CONSTRAINT c_p_id_fkey FOREIGN KEY (p_id) REFERENCES p (id);",
			label: "Foreign key `fk_p`",
		},
		{
			name:  "check",
			ctor:  naming.NewInvalidCheckConstraintNameRule,
			bad:   "CREATE TABLE t (a int CONSTRAINT positive CHECK (a > 0));",
			good:  "CREATE TABLE t (a int CONSTRAINT t_a_check CHECK (a > 0));",
			label: "Check constraint `positive`",
		},
		{
			name:  "exclusion",
			ctor:  naming.NewInvalidExclusionConstraintNameRule,
			bad:   "ALTER TABLE r ADD CONSTRAINT no_overlap EXCLUDE USING gist (during WITH &&);",
			good:  "ALTER TABLE r ADD CONSTRAINT r_during_excl EXCLUDE USING gist (during WITH &&);",
			label: "Exclusion constraint `no_overlap`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			testutil.RunRuleTests(t, tt.ctor, []testutil.RuleTestCase{
				{Name: "bad", Content: tt.bad, WantViolations: 1, WantMessages: []string{tt.label}},
				{Name: "good", Content: tt.good, WantViolations: 0},
				{Name: "unnamed", Content: "CREATE TABLE u (id int PRIMARY KEY, a int UNIQUE CHECK (a > 0));", WantViolations: 0},
			})
		})
	}
}

func TestInvalidSequenceName(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return naming.NewInvalidSequenceNameRule() }, []testutil.RuleTestCase{
		{
			Name:           "bad",
			Content:        "CREATE SEQUENCE counter;",
			WantViolations: 1,
			WantMessages:   []string{"Sequence `counter` does not match regex"},
		},
		{
			Name:           "good",
			Content:        "CREATE SEQUENCE counter_seq;",
			WantViolations: 0,
		},
	})
}

func TestInvalidPartitionName(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return naming.NewInvalidPartitionNameRule() }, []testutil.RuleTestCase{
		{
			Name:           "bad",
			Content:        `CREATE TABLE "Events-2024" PARTITION OF events FOR VALUES IN (2024);`,
			WantViolations: 1,
			WantMessages:   []string{"Partition `Events-2024`"},
		},
		{
			Name:           "good",
			Content:        "CREATE TABLE events_2024 PARTITION OF events FOR VALUES IN (2024);",
			WantViolations: 0,
		},
		{
			Name:           "not a partition",
			Content:        `CREATE TABLE "Events" (a int);`,
			WantViolations: 0,
		},
	})
}

func TestNonSnakeCaseIdentifier(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return naming.NewNonSnakeCaseIdentifierRule() }, []testutil.RuleTestCase{
		{
			Name:           "quoted mixed case table",
			Content:        `CREATE TABLE "UserAccount" (id int);`,
			WantViolations: 1,
			WantMessages:   []string{"Table `UserAccount` is not in snake case"},
		},
		{
			Name:           "column",
			Content:        `CREATE TABLE t ("firstName" text);`,
			WantViolations: 1,
			WantMessages:   []string{"Column `firstName` is not in snake case"},
		},
		{
			Name:           "unquoted names fold to lower case",
			Content:        "CREATE TABLE UserAccount (FirstName text);",
			WantViolations: 0,
		},
		{
			Name:           "index and view",
			Content:        `CREATE INDEX "Idx" ON t (a);` + "\n" + `CREATE VIEW "V" AS SELECT 1;`,
			WantViolations: 2,
		},
	})
}

func TestKeywordIdentifier(t *testing.T) {
	t.Parallel()
	testutil.RunRuleTests(t, func() rules.Rule { return naming.NewKeywordIdentifierRule() }, []testutil.RuleTestCase{
		{
			Name:           "quoted reserved column",
			Content:        `CREATE TABLE t ("user" text);`,
			WantViolations: 1,
			WantMessages:   []string{"Column `user` is a keyword"},
		},
		{
			Name:           "unreserved keyword",
			Content:        "CREATE TABLE t (name text, comment text);",
			WantViolations: 1,
			WantMessages:   []string{"Column `comment` is a keyword"},
		},
		{
			Name:           "ordinary names",
			Content:        "CREATE TABLE accounts (id int, email text);",
			WantViolations: 0,
		},
	})
}
