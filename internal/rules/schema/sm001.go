package schema

import (
	"fmt"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// SchemaUnqualifiedObjectRule flags objects created without an explicit
// schema, which land wherever search_path points at deploy time.
type SchemaUnqualifiedObjectRule struct{}

// NewSchemaUnqualifiedObjectRule creates a new SM001 rule instance.
func NewSchemaUnqualifiedObjectRule() *SchemaUnqualifiedObjectRule {
	return &SchemaUnqualifiedObjectRule{}
}

// Metadata returns the rule metadata.
func (r *SchemaUnqualifiedObjectRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "SM001",
		Name:            "schema-unqualified-object",
		Category:        rules.CategorySchema,
		Description:     "Database objects should be schema qualified",
		Help:            "Qualify the object with its schema",
		DocURL:          docBase + "schema-unqualified-object",
		DefaultSeverity: rules.SeverityWarning,
	}
}

// Handlers returns the rule's node handlers.
func (r *SchemaUnqualifiedObjectRule) Handlers() []rules.Handler {
	return objectHandlers(func(ctx *rules.Context, o object) {
		if o.schema != "" {
			return
		}
		ctx.Reportf(fmt.Sprintf("Database object `%s` should be schema qualified", o.name))
	})
}

func init() {
	rules.Register(func() rules.Rule { return NewSchemaUnqualifiedObjectRule() })
}
