package general

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// RequiredColumnRule flags tables missing a configured required column.
type RequiredColumnRule struct{}

// NewRequiredColumnRule creates a new GN002 rule instance.
func NewRequiredColumnRule() *RequiredColumnRule {
	return &RequiredColumnRule{}
}

// Metadata returns the rule metadata.
func (r *RequiredColumnRule) Metadata() rules.RuleMetadata {
	return rules.RuleMetadata{
		Code:            "GN002",
		Name:            "required-column",
		Category:        rules.CategoryGeneral,
		Description:     "Tables must carry every column listed in lint.required-columns",
		Help:            "Add the required column",
		DocURL:          docBase + "required-column",
		DefaultSeverity: rules.SeverityWarning,
		IsAutoFixable:   true,
	}
}

// Handlers returns the rule's node handlers.
func (r *RequiredColumnRule) Handlers() []rules.Handler {
	return []rules.Handler{
		rules.On(func(ctx *rules.Context, n *pg_query.CreateStmt) {
			required := ctx.Lint().RequiredColumns
			if len(required) == 0 || n.GetPartbound() != nil || n.GetOfTypename() != nil {
				return
			}

			present := make(map[string]struct{}, len(n.GetTableElts()))
			for _, elt := range n.GetTableElts() {
				if cd := elt.GetColumnDef(); cd != nil {
					present[strings.ToLower(cd.GetColname())] = struct{}{}
				}
			}

			for _, col := range required {
				if _, ok := present[strings.ToLower(col.Name)]; ok {
					continue
				}
				typeName, err := ast.ParseTypeName(col.DataType)
				ctx.Report(rules.Finding{
					Message: fmt.Sprintf("Column `%s` of type `%s` is required", col.Name, col.DataType),
					SkipFix: err != nil,
					Fix: func() rules.FixResult {
						n.TableElts = append(n.TableElts, &pg_query.Node{
							Node: &pg_query.Node_ColumnDef{ColumnDef: &pg_query.ColumnDef{
								Colname:  col.Name,
								TypeName: typeName,
								IsLocal:  true,
								Location: -1,
							}},
						})
						return rules.Keep()
					},
				})
			}
		}),
	}
}

func init() {
	rules.Register(func() rules.Rule { return NewRequiredColumnRule() })
}
