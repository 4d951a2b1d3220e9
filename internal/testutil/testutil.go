// Package testutil provides test helpers for pgrubic rules.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/linter"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// Lint runs the engine over sql with only the given rules enabled. When fix
// is set it also returns the fixed source, or sql unchanged when nothing was
// fixed. Unused-noqa diagnostics are included.
func Lint(tb testing.TB, sql string, cfg *config.Config, fix bool, ctors ...rules.Constructor) ([]rules.Violation, string) {
	tb.Helper()

	if cfg == nil {
		cfg = config.Default()
	}
	engine := linter.New(linter.Options{
		Config: cfg,
		Fix:    fix,
		Rules: func() ([]rules.Rule, error) {
			set := make([]rules.Rule, 0, len(ctors))
			for _, ctor := range ctors {
				set = append(set, ctor())
			}
			return set, nil
		},
	})

	res, err := engine.LintSource("test.sql", []byte(sql))
	if err != nil {
		tb.Fatalf("lint failed: %v", err)
	}
	if res.FixedSource != nil {
		return res.Violations, string(res.FixedSource)
	}
	return res.Violations, sql
}

// LintSQL lints sql with the given rules and no fixes.
func LintSQL(tb testing.TB, sql string, cfg *config.Config, ctors ...rules.Constructor) []rules.Violation {
	tb.Helper()
	violations, _ := Lint(tb, sql, cfg, false, ctors...)
	return violations
}

// FixSQL lints sql with fixes enabled and returns the fixed source.
func FixSQL(tb testing.TB, sql string, cfg *config.Config, ctors ...rules.Constructor) string {
	tb.Helper()
	_, fixed := Lint(tb, sql, cfg, true, ctors...)
	return fixed
}

// ConfigWith returns the default config after applying mutate to its lint
// section.
func ConfigWith(mutate func(*config.LintConfig)) *config.Config {
	cfg := config.Default()
	mutate(&cfg.Lint)
	return cfg
}

// RuleTestCase defines a test case for table-driven rule tests.
type RuleTestCase struct {
	// Name is the test case name.
	Name string

	// Content is the SQL to lint.
	Content string

	// Config is the optional configuration.
	Config *config.Config

	// WantViolations is the expected number of violations.
	// Use -1 to skip the count check.
	WantViolations int

	// WantMessages are substrings expected in violation messages, in order.
	WantMessages []string

	// WantFixed, when set, is the expected source after fixing.
	WantFixed string
}

// RunRuleTests runs each case as a parallel subtest with only ctor's
// rule enabled.
func RunRuleTests(t *testing.T, ctor rules.Constructor, cases []RuleTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()
			got := LintSQL(t, tc.Content, tc.Config, ctor)

			if tc.WantViolations >= 0 {
				AssertViolationCount(t, got, tc.WantViolations)
			}
			for i, want := range tc.WantMessages {
				switch {
				case i >= len(got):
					t.Errorf("no violation #%d to match %q", i, want)
				case !strings.Contains(got[i].Message, want):
					t.Errorf("violation #%d says %q, want it to contain %q", i, got[i].Message, want)
				}
			}
			if tc.WantFixed != "" {
				AssertSQLEqual(t, tc.WantFixed, FixSQL(t, tc.Content, tc.Config, ctor))
			}
		})
	}
}

// AssertSQLEqual fails with a character diff when got differs from want.
func AssertSQLEqual(tb testing.TB, want, got string) {
	tb.Helper()
	if want == got {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemanticLossless(dmp.DiffMain(want, got, false))
	tb.Errorf("fixed SQL differs (-want +got):\n%s", dmp.DiffPrettyText(diffs))
}

// AssertNoViolations fails the test if there are any violations.
func AssertNoViolations(tb testing.TB, violations []rules.Violation) {
	tb.Helper()
	AssertViolationCount(tb, violations, 0)
}

// AssertViolationCount fails and lists the violations when their number
// is not want.
func AssertViolationCount(tb testing.TB, violations []rules.Violation, want int) {
	tb.Helper()
	if len(violations) == want {
		return
	}
	var b strings.Builder
	for _, v := range violations {
		fmt.Fprintf(&b, "\n  %s line %d: %s", v.RuleCode, v.Line(), v.Message)
	}
	tb.Errorf("got %d violations, want %d%s", len(violations), want, b.String())
}
