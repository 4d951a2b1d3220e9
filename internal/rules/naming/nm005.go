package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// NewInvalidCheckConstraintNameRule creates a new NM005 rule instance.
func NewInvalidCheckConstraintNameRule() rules.Rule {
	return &constraintNameRule{
		meta: rules.RuleMetadata{
			Code:            "NM005",
			Name:            "invalid-check-constraint-name",
			Category:        rules.CategoryNaming,
			Description:     "Check constraint names must match lint.regex-constraint-check",
			DocURL:          docBase + "invalid-check-constraint-name",
			DefaultSeverity: rules.SeverityStyle,
		},
		contype: pg_query.ConstrType_CONSTR_CHECK,
		label:   "Check constraint",
		pattern: func(c config.LintConfig) string { return c.RegexConstraintCheck },
	}
}

func init() {
	rules.Register(NewInvalidCheckConstraintNameRule)
}
