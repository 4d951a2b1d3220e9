package typing

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// TimeWithTimeZoneRule flags time with time zone columns. The type has no
// date, so its offset is meaningless across daylight saving changes.
type TimeWithTimeZoneRule struct{}

// NewTimeWithTimeZoneRule creates a new TP008 rule instance.
func NewTimeWithTimeZoneRule() *TimeWithTimeZoneRule {
	return &TimeWithTimeZoneRule{}
}

// Metadata returns the rule metadata.
func (r *TimeWithTimeZoneRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "TP008",
		Name:            "timetz",
		Category:        rules.CategoryTyping,
		Description:     "time with time zone cannot handle daylight saving time",
		Help:            "Use timestamptz",
		DocURL:          docBase + "timetz",
		DefaultSeverity: rules.SeverityWarning,
	}
}

// Handlers returns the rule's node handlers.
func (r *TimeWithTimeZoneRule) Handlers() []rules.Handler {
	return []rules.Handler{
		onColumnType(func(ctx *rules.Context, _ *pg_query.ColumnDef, tn *pg_query.TypeName) {
			if !ast.IsType(tn, "timetz") {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Prefer timestamptz over time with time zone",
				Node:    tn,
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewTimeWithTimeZoneRule() })
}
