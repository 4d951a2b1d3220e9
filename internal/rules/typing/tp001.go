package typing

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// TimestampWithoutTimeZoneRule flags columns of type timestamp without time zone.
type TimestampWithoutTimeZoneRule struct{}

// NewTimestampWithoutTimeZoneRule creates a new TP001 rule instance.
func NewTimestampWithoutTimeZoneRule() *TimestampWithoutTimeZoneRule {
	return &TimestampWithoutTimeZoneRule{}
}

// Metadata returns the rule metadata.
func (r *TimestampWithoutTimeZoneRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "TP001",
		Name:            "timestamp-without-time-zone",
		Category:        rules.CategoryTyping,
		Description:     "timestamp without time zone does not identify a point in time",
		Help:            "Use timestamptz",
		DocURL:          docBase + "timestamp-without-time-zone",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *TimestampWithoutTimeZoneRule) Handlers() []rules.Handler {
	return []rules.Handler{
		onColumnType(func(ctx *rules.Context, _ *pg_query.ColumnDef, tn *pg_query.TypeName) {
			if !ast.IsType(tn, "timestamp") {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Prefer timestamp with time zone over timestamp without time zone",
				Node:    tn,
				Fix:     retype(tn, true, "timestamptz"),
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewTimestampWithoutTimeZoneRule() })
}
