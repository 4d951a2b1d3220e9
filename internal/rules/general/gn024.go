package general

import (
	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// NullComparisonRule flags comparisons with NULL using = or <>, which
// always yield NULL.
type NullComparisonRule struct{}

// NewNullComparisonRule creates a new GN024 rule instance.
func NewNullComparisonRule() *NullComparisonRule {
	return &NullComparisonRule{}
}

// Metadata returns the rule metadata.
func (r *NullComparisonRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN024",
		Name:            "null-comparison",
		Category:        rules.CategoryGeneral,
		Description:     "Comparison with NULL using = or <> is never true",
		Help:            "Use IS NULL or IS NOT NULL",
		DocURL:          docBase + "null-comparison",
		DefaultSeverity: rules.SeverityError,
		IsAutoFixable:   true,
	}
}

func isNullConst(n *pg_query.Node) bool {
	c := n.GetAConst()
	return c != nil && c.GetIsnull()
}

// Handlers returns the rule's node handlers.
func (r *NullComparisonRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.A_Expr) {
			if n.GetKind() != pg_query.A_Expr_Kind_AEXPR_OP {
				return
			}

			var testType pg_query.NullTestType
			switch ast.QualifiedName(n.GetName()) {
			case "=":
				testType = pg_query.NullTestType_IS_NULL
			case "<>", "!=":
				testType = pg_query.NullTestType_IS_NOT_NULL
			default:
				return
			}

			var operand *pg_query.Node
			switch {
			case isNullConst(n.GetRexpr()):
				operand = n.GetLexpr()
			case isNullConst(n.GetLexpr()):
				operand = n.GetRexpr()
			default:
				return
			}

			ctx.Report(rules.Finding{
				Message: "Comparison with NULL should be IS [NOT] NULL",
				// NULL = NULL has no sensible rewrite.
				SkipFix: operand == nil || isNullConst(operand),
				Fix: func() rules.FixResult {
					return rules.Replace(&pg_query.Node{Node: &pg_query.Node_NullTest{
						NullTest: &pg_query.NullTest{
							Arg:          operand,
							Nulltesttype: testType,
							Location:     n.GetLocation(),
						},
					}})
				},
			})
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewNullComparisonRule() })
}
