package rules

import (
	"sort"

	"google.golang.org/protobuf/proto"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/segment"
)

// PassOptions configures one dispatch pass over a statement tree.
type PassOptions struct {
	File      string
	Source    string
	Statement segment.Statement
	Config    *config.Config

	// Pass is the 1-based fix-loop iteration.
	Pass int

	// Fix enables fixes globally.
	Fix bool

	// Applier carries out fixes. Nil disables fixing.
	Applier FixApplier

	// Position maps a statement-relative location to a 1-based line, a
	// 0-based column and the text of that line.
	Position func(nodeLocation int) (line, column int, lineText string)

	// Suppressed reports whether a violation of ruleCode on line is covered
	// by a noqa directive. Covered sites are never fixed.
	Suppressed func(ruleCode string, line int) bool

	// Fallback is the location of nodes created after tagging.
	Fallback int
}

// PassResult is the outcome of one dispatch pass.
type PassResult struct {
	// Violations in dispatch order.
	Violations []Violation

	// FixesApplied counts fixes that ran during the pass.
	FixesApplied int

	// Err is the first fix application error, if any.
	Err error
}

type boundHandler struct {
	meta  RuleMetadata
	visit func(*Context, proto.Message)
}

// Dispatcher routes visited nodes to rule handlers. Handlers for the same
// node kind run in rule-code order, so interacting fixes are deterministic.
type Dispatcher struct {
	handlers map[string][]boundHandler
}

// NewDispatcher builds the dispatch table for a rule set.
func NewDispatcher(set []Rule) *Dispatcher {
	sorted := make([]Rule, len(set))
	copy(sorted, set)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Metadata().Code < sorted[j].Metadata().Code
	})

	d := &Dispatcher{handlers: make(map[string][]boundHandler)}
	for _, rule := range sorted {
		meta := rule.Metadata()
		for _, h := range rule.Handlers() {
			d.handlers[h.Kind] = append(d.handlers[h.Kind], boundHandler{meta: meta, visit: h.visit})
		}
	}
	return d
}

// Kinds returns the node kinds with at least one handler.
func (d *Dispatcher) Kinds() []string {
	kinds := make([]string, 0, len(d.handlers))
	for k := range d.handlers {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Run walks root in pre-order and dispatches every node to its handlers.
func (d *Dispatcher) Run(root proto.Message, locs ast.Locations, opts PassOptions) *PassResult {
	run := &passRun{
		opts:   opts,
		locs:   locs,
		result: &PassResult{},
		seen:   make(map[Key]struct{}),
	}

	ast.Walk(root, func(cur *ast.Cursor) {
		hs := d.handlers[ast.Kind(cur.Message())]
		if len(hs) == 0 {
			return
		}
		loc := locs.Of(cur.Message(), opts.Fallback)
		for _, h := range hs {
			ctx := &Context{
				File:         opts.File,
				Source:       opts.Source,
				Statement:    opts.Statement,
				Config:       opts.Config,
				NodeLocation: loc,
				Pass:         opts.Pass,
				meta:         h.meta,
				cursor:       cur,
				run:          run,
			}
			h.visit(ctx, cur.Message())
		}
	})

	return run.result
}

type passRun struct {
	opts   PassOptions
	locs   ast.Locations
	result *PassResult
	seen   map[Key]struct{}
}

func (r *passRun) report(c *Context, f Finding) {
	loc := c.NodeLocation
	if f.Node != nil {
		loc = r.locs.Of(f.Node, loc)
	}

	var line, col int
	var text string
	if r.opts.Position != nil {
		line, col, text = r.opts.Position(loc)
	}

	help := f.Help
	if help == "" {
		help = c.meta.Help
	}

	v := Violation{
		Location:          NewPointLocation(r.opts.File, line, col),
		RuleCode:          c.meta.Code,
		RuleName:          c.meta.Name,
		Category:          c.meta.Category,
		Message:           f.Message,
		Help:              help,
		Severity:          c.meta.DefaultSeverity,
		DocURL:            c.meta.DocURL,
		SourceLine:        text,
		StatementLocation: r.opts.Statement.Location,
		IsAutoFixable:     c.meta.IsAutoFixable,
	}

	key := v.Key()
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}

	if r.shouldFix(c, f, line) {
		target := f.Node
		if target == nil {
			target = c.cursor.Message()
		}
		if r.opts.Applier.Claim(target) {
			if err := r.opts.Applier.Apply(c.cursor, f.Fix()); err != nil {
				if r.result.Err == nil {
					r.result.Err = err
				}
			} else {
				v.IsFixApplied = true
				r.result.FixesApplied++
			}
		}
	}

	r.result.Violations = append(r.result.Violations, v)
}

func (r *passRun) shouldFix(c *Context, f Finding, line int) bool {
	if f.Fix == nil || f.SkipFix || !r.opts.Fix || r.opts.Applier == nil {
		return false
	}
	if !c.meta.IsAutoFixable {
		return false
	}
	if r.opts.Suppressed != nil && r.opts.Suppressed(c.meta.Code, line) {
		return false
	}
	return true
}
