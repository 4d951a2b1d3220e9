package typing

import (
	"fmt"
	"slices"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// DisallowedDataTypeRule flags columns whose type is listed in
// lint.disallowed-data-types.
type DisallowedDataTypeRule struct {
	// resolved caches the parsed form of each configured type name.
	resolved map[string][]string
}

// NewDisallowedDataTypeRule creates a new TP007 rule instance.
func NewDisallowedDataTypeRule() *DisallowedDataTypeRule {
	return &DisallowedDataTypeRule{resolved: make(map[string][]string)}
}

// Metadata returns the rule metadata.
func (r *DisallowedDataTypeRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "TP007",
		Name:            "disallowed-data-type",
		Category:        rules.CategoryTyping,
		Description:     "Data types listed in lint.disallowed-data-types must not be used",
		DocURL:          docBase + "disallowed-data-type",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// parts normalizes a configured type name the way the parser would, so
// "character varying" matches a column declared as varchar(10).
func (r *DisallowedDataTypeRule) parts(name string) []string {
	if p, ok := r.resolved[name]; ok {
		return p
	}
	var p []string
	if tn, err := ast.ParseTypeName(name); err == nil {
		p = ast.TypeNameParts(tn)
	}
	r.resolved[name] = p
	return p
}

func (r *DisallowedDataTypeRule) matches(tn *pg_query.TypeName, entry config.DisallowedObject) bool {
	want := r.parts(entry.Name)
	if len(want) == 0 {
		return false
	}
	got := ast.TypeNameParts(tn)
	if slices.Equal(got, want) {
		return true
	}
	// pg_catalog qualification is implicit on either side.
	trim := func(p []string) []string {
		if len(p) == 2 && p[0] == "pg_catalog" {
			return p[1:]
		}
		return p
	}
	return slices.Equal(trim(got), trim(want))
}

// Handlers returns the rule's node handlers.
func (r *DisallowedDataTypeRule) Handlers() []rules.Handler {
	return []rules.Handler{
		onColumnType(func(ctx *rules.Context, _ *pg_query.ColumnDef, tn *pg_query.TypeName) {
			for _, entry := range ctx.Lint().DisallowedDataTypes {
				if !r.matches(tn, entry) {
					continue
				}

				msg := fmt.Sprintf("Data type `%s` is disallowed", entry.Name)
				if entry.Reason != "" {
					msg += ": " + entry.Reason
				}
				finding := rules.Finding{Message: msg, Node: tn, SkipFix: true}
				if entry.UseInstead != "" {
					finding.Help = fmt.Sprintf("Use `%s` instead", entry.UseInstead)
					if repl, err := ast.ParseTypeName(entry.UseInstead); err == nil {
						finding.SkipFix = false
						finding.Fix = func() rules.FixResult {
							ast.SetTypeName(tn, repl)
							return rules.Keep()
						}
					}
				}
				ctx.Report(finding)
				return
			}
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewDisallowedDataTypeRule() })
}
