package directive

import "github.com/bolajiwahab/pgrubic-sub001/internal/rules"

// FilterResult contains the results of filtering violations through directives.
type FilterResult struct {
	// Violations that were not suppressed.
	Violations []rules.Violation

	// Suppressed violations that were filtered out.
	Suppressed []rules.Violation

	// UnusedDirectives did not suppress any violation.
	UnusedDirectives []Directive
}

// Filter drops every violation covered by a directive and marks the matching
// directives used. A violation is covered when a directive with its rule code
// (or AStar) has a scope containing it: statement directives match on
// statement location, line directives on line number.
//
// All matching directives are marked used, so a violation covered by both a
// statement and a line directive leaves neither reported as unused.
func Filter(violations []rules.Violation, directives []Directive) *FilterResult {
	result := &FilterResult{
		Violations: make([]rules.Violation, 0, len(violations)),
	}

	for _, v := range violations {
		if v.IsInternal() {
			result.Violations = append(result.Violations, v)
			continue
		}

		suppressed := false
		for i := range directives {
			d := &directives[i]
			if d.SuppressesRule(v.RuleCode) && d.Covers(v.StatementLocation, v.Line()) {
				suppressed = true
				d.Used = true
			}
		}

		if suppressed {
			result.Suppressed = append(result.Suppressed, v)
		} else {
			result.Violations = append(result.Violations, v)
		}
	}

	for _, d := range directives {
		if !d.Used {
			result.UnusedDirectives = append(result.UnusedDirectives, d)
		}
	}

	return result
}

// Suppresses reports whether any directive would cover a violation of
// ruleCode at the given scope. It does not mark directives used; the fix
// gate calls it so that suppressed sites are never rewritten.
func Suppresses(directives []Directive, ruleCode string, statementLocation, line int) bool {
	for i := range directives {
		d := &directives[i]
		if d.SuppressesRule(ruleCode) && d.Covers(statementLocation, line) {
			return true
		}
	}
	return false
}
