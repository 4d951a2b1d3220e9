package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// NewInvalidExclusionConstraintNameRule creates a new NM006 rule instance.
func NewInvalidExclusionConstraintNameRule() rules.Rule {
	return &constraintNameRule{
		meta: rules.RuleMetadata{
			Code:            "NM006",
			Name:            "invalid-exclusion-constraint-name",
			Category:        rules.CategoryNaming,
			Description:     "Exclusion constraint names must match lint.regex-constraint-exclusion",
			DocURL:          docBase + "invalid-exclusion-constraint-name",
			DefaultSeverity: rules.SeverityStyle,
		},
		contype: pg_query.ConstrType_CONSTR_EXCLUSION,
		label:   "Exclusion constraint",
		pattern: func(c config.LintConfig) string { return c.RegexConstraintExclusion },
	}
}

func init() {
	rules.Register(NewInvalidExclusionConstraintNameRule)
}
