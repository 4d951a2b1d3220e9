package naming

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/proto"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/segment"
)

// KeywordIdentifierRule flags identifiers that are PostgreSQL keywords.
type KeywordIdentifierRule struct {
	keywords map[string]bool
}

// NewKeywordIdentifierRule creates a new NM010 rule instance.
func NewKeywordIdentifierRule() *KeywordIdentifierRule {
	return &KeywordIdentifierRule{keywords: make(map[string]bool)}
}

// Metadata returns the rule metadata.
func (r *KeywordIdentifierRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "NM010",
		Name:            "keyword-identifier",
		Category:        rules.CategoryNaming,
		Description:     "Keywords used as identifiers need quoting in some contexts",
		Help:            "Choose a name that is not a keyword",
		DocURL:          docBase + "keyword-identifier",
		DefaultSeverity: rules.SeverityWarning,
	}
}

// isKeyword asks the scanner whether name, on its own, lexes as a keyword.
func (r *KeywordIdentifierRule) isKeyword(name string) bool {
	key := strings.ToLower(name)
	if kw, ok := r.keywords[key]; ok {
		return kw
	}
	tokens, err := segment.Scan(key)
	kw := err == nil && len(tokens) == 1 && tokens[0].Keyword && tokens[0].Text == key
	r.keywords[key] = kw
	return kw
}

// Handlers returns the rule's node handlers.
func (r *KeywordIdentifierRule) Handlers() []rules.Handler {
	return identifierHandlers(func(ctx *rules.Context, kind, name string, node proto.Message) {
		if !r.isKeyword(name) {
			return
		}
		ctx.Report(rules.Finding{
			Message: fmt.Sprintf("%s `%s` is a keyword", kind, name),
			Node:    node,
		})
	})
}

func init() {
	rules.Register(func() rules.Rule { return NewKeywordIdentifierRule() })
}
