package unsafe

import (
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// NonConcurrentIndexRule flags CREATE INDEX and DROP INDEX without
// CONCURRENTLY. Indexes on tables created earlier in the same file are
// exempt: nothing can be reading those tables yet.
type NonConcurrentIndexRule struct {
	created map[string]struct{}
}

// NewNonConcurrentIndexRule creates a new US004 rule instance.
func NewNonConcurrentIndexRule() *NonConcurrentIndexRule {
	return &NonConcurrentIndexRule{created: make(map[string]struct{})}
}

// Metadata returns the rule metadata.
func (r *NonConcurrentIndexRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "US004",
		Name:            "non-concurrent-index",
		Category:        rules.CategoryUnsafe,
		Description:     "Building or dropping an index without CONCURRENTLY blocks writes",
		Help:            "Use CONCURRENTLY",
		DocURL:          docBase + "non-concurrent-index",
		DefaultSeverity: rules.SeverityError,
		IsAutoFixable:   true,
	}
}

func relationKey(rv *pg_query.RangeVar) string {
	return strings.ToLower(ast.RangeVarName(rv))
}

// Handlers returns the rule's node handlers.
func (r *NonConcurrentIndexRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) {
			r.created[relationKey(n.GetRelation())] = struct{}{}
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.IndexStmt) {
			if n.GetConcurrent() {
				return
			}
			if _, fresh := r.created[relationKey(n.GetRelation())]; fresh {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Index should be created concurrently",
				Fix: func() rules.FixResult {
					n.Concurrent = true
					return rules.Keep()
				},
			})
		}),
		rules.On(func(ctx *rules.Context, n *pg_query.DropStmt) {
			if n.GetRemoveType() != pg_query.ObjectType_OBJECT_INDEX || n.GetConcurrent() {
				return
			}
			ctx.Report(rules.Finding{
				Message: "Index should be dropped concurrently",
				// DROP INDEX CONCURRENTLY takes a single index and no CASCADE.
				SkipFix: len(n.GetObjects()) > 1 || n.GetBehavior() == pg_query.DropBehavior_DROP_CASCADE,
				Fix: func() rules.FixResult {
					n.Concurrent = true
					return rules.Keep()
				},
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewNonConcurrentIndexRule() })
}
