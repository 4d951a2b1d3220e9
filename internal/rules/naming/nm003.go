package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// NewInvalidUniqueKeyNameRule creates a new NM003 rule instance.
func NewInvalidUniqueKeyNameRule() rules.Rule {
	return &constraintNameRule{
		meta: rules.RuleMetadata{
			Code:            "NM003",
			Name:            "invalid-unique-key-name",
			Category:        rules.CategoryNaming,
			Description:     "Unique constraint names must match lint.regex-constraint-unique-key",
			DocURL:          docBase + "invalid-unique-key-name",
			DefaultSeverity: rules.SeverityStyle,
		},
		contype: pg_query.ConstrType_CONSTR_UNIQUE,
		label:   "Unique key",
		pattern: func(c config.LintConfig) string { return c.RegexConstraintUniqueKey },
	}
}

func init() {
	rules.Register(NewInvalidUniqueKeyNameRule)
}
