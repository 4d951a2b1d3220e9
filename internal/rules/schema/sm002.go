package schema

import (
	"fmt"
	"strings"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// DisallowedSchemaRule flags objects created in a schema listed in
// lint.disallowed-schemas.
type DisallowedSchemaRule struct{}

// NewDisallowedSchemaRule creates a new SM002 rule instance.
func NewDisallowedSchemaRule() *DisallowedSchemaRule {
	return &DisallowedSchemaRule{}
}

// Metadata returns the rule metadata.
func (r *DisallowedSchemaRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "SM002",
		Name:            "disallowed-schema",
		Category:        rules.CategorySchema,
		Description:     "Objects must not be created in schemas listed in lint.disallowed-schemas",
		DocURL:          docBase + "disallowed-schema",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *DisallowedSchemaRule) Handlers() []rules.Handler {
	return objectHandlers(func(ctx *rules.Context, o object) {
		if o.schema == "" {
			return
		}
		for _, entry := range ctx.Lint().DisallowedSchemas {
			if !strings.EqualFold(entry.Name, o.schema) {
				continue
			}
			msg := fmt.Sprintf("Schema `%s` is disallowed", o.schema)
			if entry.Reason != "" {
				msg += ": " + entry.Reason
			}
			finding := rules.Finding{Message: msg, SkipFix: entry.UseInstead == "" || o.setSchema == nil}
			if entry.UseInstead != "" {
				finding.Help = fmt.Sprintf("Use schema `%s` instead", entry.UseInstead)
				finding.Fix = func() rules.FixResult {
					o.setSchema(entry.UseInstead)
					return rules.Keep()
				}
			}
			ctx.Report(finding)
			return
		}
	})
}

func init() {
	rules.Register(func() rules.Rule { return NewDisallowedSchemaRule() })
}
