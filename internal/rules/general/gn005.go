package general

import (
	"fmt"
	"slices"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// DisallowedExtensionRule flags extensions outside lint.allowed-extensions.
type DisallowedExtensionRule struct{}

// NewDisallowedExtensionRule creates a new GN005 rule instance.
func NewDisallowedExtensionRule() *DisallowedExtensionRule {
	return &DisallowedExtensionRule{}
}

// Metadata returns the rule metadata.
func (r *DisallowedExtensionRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN005",
		Name:            "disallowed-extension",
		Category:        rules.CategoryGeneral,
		Description:     "Only extensions listed in lint.allowed-extensions may be created",
		DocURL:          docBase + "disallowed-extension",
		DefaultSeverity: rules.SeverityWarning,
	}
}

// Handlers returns the rule's node handlers.
func (r *DisallowedExtensionRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateExtensionStmt) {
			allowed := ctx.Lint().AllowedExtensions
			if len(allowed) == 0 || containsFold(allowed, n.GetExtname()) {
				return
			}
			ctx.Reportf(fmt.Sprintf("Extension `%s` is not allowed", n.GetExtname()))
		}),
	}
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(item string) bool {
		return strings.EqualFold(item, s) || item == "*"
	})
}

func init() {
	rules.Register(func() rules.Rule { return NewDisallowedExtensionRule() })
}
