package naming

import (
	"fmt"
	"regexp"

	"google.golang.org/protobuf/proto"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

var snakeCase = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// NonSnakeCaseIdentifierRule flags identifiers that are not snake_case.
// Mixed-case names have to be double quoted forever after.
type NonSnakeCaseIdentifierRule struct{}

// NewNonSnakeCaseIdentifierRule creates a new NM009 rule instance.
func NewNonSnakeCaseIdentifierRule() *NonSnakeCaseIdentifierRule {
	return &NonSnakeCaseIdentifierRule{}
}

// Metadata returns the rule metadata.
func (r *NonSnakeCaseIdentifierRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "NM009",
		Name:            "non-snake-case-identifier",
		Category:        rules.CategoryNaming,
		Description:     "Identifiers should be snake_case",
		Help:            "Rename using lower case letters, digits and underscores",
		DocURL:          docBase + "non-snake-case-identifier",
		DefaultSeverity: rules.SeverityStyle,
	}
}

// Handlers returns the rule's node handlers.
func (r *NonSnakeCaseIdentifierRule) Handlers() []rules.Handler {
	return identifierHandlers(func(ctx *rules.Context, kind, name string, node proto.Message) {
		if snakeCase.MatchString(name) {
			return
		}
		ctx.Report(rules.Finding{
			Message: fmt.Sprintf("%s `%s` is not in snake case", kind, name),
			Node:    node,
		})
	})
}

func init() {
	rules.Register(func() rules.Rule { return NewNonSnakeCaseIdentifierRule() })
}
