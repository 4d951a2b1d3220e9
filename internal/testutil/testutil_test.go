package testutil

import (
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// unloggedRule flags unlogged tables and makes them logged.
type unloggedRule struct{}

func (unloggedRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "XX001",
		Name:            "unlogged-table",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

func (unloggedRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) {
			rel := n.GetRelation()
			if rel.GetRelpersistence() != "u" {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Unlogged table detected",
				Node:    rel,
				Fix: func() rules.FixResult {
					rel.Relpersistence = "p"
					return rules.Keep()
				},
			})
		}),
	}
}

func newUnloggedRule() rules.Rule { return unloggedRule{} }

func TestLintSQL(t *testing.T) {
	t.Parallel()
	violations := LintSQL(t, "CREATE UNLOGGED TABLE t (a int);\nCREATE TABLE u (a int);\n", nil, newUnloggedRule)

	AssertViolationCount(t, violations, 1)
	if violations[0].Line() != 1 {
		t.Errorf("line = %d, want 1", violations[0].Line())
	}
}

func TestFixSQL(t *testing.T) {
	t.Parallel()
	fixed := FixSQL(t, "CREATE UNLOGGED TABLE t (a int);\n", nil, newUnloggedRule)
	AssertSQLEqual(t, "CREATE TABLE t (a int);\n", fixed)

	AssertNoViolations(t, LintSQL(t, fixed, nil, newUnloggedRule))
}

func TestRunRuleTests(t *testing.T) {
	t.Parallel()
	RunRuleTests(t, newUnloggedRule, []RuleTestCase{
		{
			Name:           "unlogged",
			Content:        "CREATE UNLOGGED TABLE t (a int);",
			WantViolations: 1,
			WantMessages:   []string{"Unlogged table"},
			WantFixed:      "CREATE TABLE t (a int);",
		},
		{
			Name:           "logged",
			Content:        "CREATE TABLE t (a int);",
			WantViolations: 0,
		},
	})
}

func TestConfigWith(t *testing.T) {
	t.Parallel()
	cfg := ConfigWith(func(l *config.LintConfig) {
		l.AllowedExtensions = []string{"pgcrypto"}
	})
	if len(cfg.Lint.AllowedExtensions) != 1 {
		t.Fatalf("mutation not applied: %+v", cfg.Lint.AllowedExtensions)
	}
	if config.Default().Lint.AllowedExtensions == nil || len(config.Default().Lint.AllowedExtensions) != 0 {
		t.Fatal("default config must not be shared")
	}
}
