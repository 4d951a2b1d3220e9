package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// NewInvalidForeignKeyNameRule creates a new NM004 rule instance.
func NewInvalidForeignKeyNameRule() rules.Rule {
	return &constraintNameRule{
		meta: rules.RuleMetadata{
			Code:            "NM004",
			Name:            "invalid-foreign-key-name",
			Category:        rules.CategoryNaming,
			Description:     "Foreign key names must match lint.regex-constraint-foreign-key",
			DocURL:          docBase + "invalid-foreign-key-name",
			DefaultSeverity: rules.SeverityStyle,
		},
		contype: pg_query.ConstrType_CONSTR_FOREIGN,
		label:   "Foreign key",
		pattern: func(c config.LintConfig) string { return c.RegexConstraintForeignKey },
	}
}

func init() {
	rules.Register(NewInvalidForeignKeyNameRule)
}
