package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// NewInvalidPrimaryKeyNameRule creates a new NM002 rule instance.
func NewInvalidPrimaryKeyNameRule() rules.Rule {
	return &constraintNameRule{
		meta: rules.RuleMetadata{
			Code:            "NM002",
			Name:            "invalid-primary-key-name",
			Category:        rules.CategoryNaming,
			Description:     "Primary key names must match lint.regex-constraint-primary-key",
			DocURL:          docBase + "invalid-primary-key-name",
			DefaultSeverity: rules.SeverityStyle,
		},
		contype: pg_query.ConstrType_CONSTR_PRIMARY,
		label:   "Primary key",
		pattern: func(c config.LintConfig) string { return c.RegexConstraintPrimaryKey },
	}
}

func init() {
	rules.Register(NewInvalidPrimaryKeyNameRule)
}
