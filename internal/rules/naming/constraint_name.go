package naming

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// constraintNameRule checks the names of one kind of constraint. NM002 to
// NM006 differ only in the constraint type and the configured pattern.
type constraintNameRule struct {
	meta    rules.RuleMetadata
	contype pg_query.ConstrType
	label   string
	pattern func(config.LintConfig) string
}

func (r *constraintNameRule) Metadata() rules.RuleMetadata {
	return r.meta
}

func (r *constraintNameRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.Constraint) {
			if n.GetContype() != r.contype {
				return
			}
			checkName(ctx, r.label, n.GetConname(), r.pattern(ctx.Lint()))
		}),
	}
}
