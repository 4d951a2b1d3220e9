package general

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// DisallowedLanguageRule flags functions, procedures and DO blocks written
// in a language outside lint.allowed-languages.
type DisallowedLanguageRule struct{}

// NewDisallowedLanguageRule creates a new GN006 rule instance.
func NewDisallowedLanguageRule() *DisallowedLanguageRule {
	return &DisallowedLanguageRule{}
}

// Metadata returns the rule metadata.
func (r *DisallowedLanguageRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN006",
		Name:            "disallowed-language",
		Category:        rules.CategoryGeneral,
		Description:     "Only languages listed in lint.allowed-languages may be used",
		DocURL:          docBase + "disallowed-language",
		DefaultSeverity: rules.SeverityWarning,
	}
}

// Handlers returns the rule's node handlers.
func (r *DisallowedLanguageRule) Handlers() []rules.Handler {
	check := func(ctx *rules.Context, options []*pg_query.Node, fallback string) {
		allowed := ctx.Lint().AllowedLanguages
		if len(allowed) == 0 {
			return
		}
		lang, ok := ast.DefElemString(options, "language")
		if !ok || lang == "" {
			lang = fallback
		}
		if lang == "" || containsFold(allowed, lang) {
			return
		}
		ctx.Reportf(fmt.Sprintf("Language `%s` is not allowed", lang))
	}

	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateFunctionStmt) {
			// SQL-standard bodies (BEGIN ATOMIC / RETURN) are always sql.
			fallback := ""
			if n.GetSqlBody() != nil {
				fallback = "sql"
			}
			check(ctx, n.GetOptions(), fallback)
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.DoStmt) {
			check(ctx, n.GetArgs(), "plpgsql")
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewDisallowedLanguageRule() })
}
