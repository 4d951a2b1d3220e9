package fix

import (
	"errors"
	"fmt"
	"sort"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// ErrNoSlot is returned when a fix asks to replace or delete a node that
// has no suitable parent slot.
var ErrNoSlot = errors.New("fix target has no parent slot")

// Pass coordinates the fixes of one dispatch pass over a statement tree.
// A node may be fixed at most once per pass; later claims on it are
// deferred to the next pass, where the tree is re-parsed.
type Pass struct {
	claimed  map[proto.Message]struct{}
	deletes  []pendingDelete
	deferred int
}

type pendingDelete struct {
	parent protoreflect.Message
	field  protoreflect.FieldDescriptor
	index  int
}

var _ rules.FixApplier = (*Pass)(nil)

// NewPass returns an empty pass.
func NewPass() *Pass {
	return &Pass{claimed: make(map[proto.Message]struct{})}
}

// Claim reserves node for a fix.
func (p *Pass) Claim(node proto.Message) bool {
	if _, taken := p.claimed[node]; taken {
		p.deferred++
		return false
	}
	p.claimed[node] = struct{}{}
	return true
}

// Deferred returns the number of fixes refused because their node was
// already claimed.
func (p *Pass) Deferred() int {
	return p.deferred
}

// Apply carries out a fix result for the node at the cursor.
func (p *Pass) Apply(cur *ast.Cursor, result rules.FixResult) error {
	switch result.Action() {
	case rules.FixKeep:
		return nil
	case rules.FixReplace:
		return p.replace(cur, result.Node())
	case rules.FixDelete:
		return p.delete(cur)
	default:
		return fmt.Errorf("unknown fix action %v", result.Action())
	}
}

func (p *Pass) replace(cur *ast.Cursor, repl proto.Message) error {
	if repl == nil {
		return errors.New("replace fix returned no node")
	}
	target := cur.Message()

	if n, ok := repl.(*pg_query.Node); ok {
		wrapper, isWrapper := target.(*pg_query.Node)
		if !isWrapper {
			wrapper, isWrapper = cur.Parent().(*pg_query.Node)
		}
		if !isWrapper {
			return fmt.Errorf("replace %s: %w", ast.Kind(target), ErrNoSlot)
		}
		wrapper.Node = n.GetNode()
		cur.SkipChildren()
		cur.Prune(wrapper)
		return nil
	}

	if repl.ProtoReflect().Descriptor() != target.ProtoReflect().Descriptor() {
		return fmt.Errorf("replace %s with %s: node kinds differ", ast.Kind(target), ast.Kind(repl))
	}
	if repl == target {
		return nil
	}
	proto.Reset(target)
	proto.Merge(target, repl)
	cur.SkipChildren()
	return nil
}

func (p *Pass) delete(cur *ast.Cursor) error {
	frame := cur.Frame()
	if !frame.InList() && frame.Parent != nil {
		// Elements of node lists are wrapped in a Node.
		if _, wrapped := frame.Parent.Interface().(*pg_query.Node); wrapped {
			if up, ok := cur.Ancestor(1); ok {
				frame = up
			}
		}
	}
	if !frame.InList() {
		return fmt.Errorf("delete %s: %w", ast.Kind(cur.Message()), ErrNoSlot)
	}

	for _, d := range p.deletes {
		if d.parent == frame.Parent && d.field == frame.Field && d.index == frame.Index {
			return nil
		}
	}
	p.deletes = append(p.deletes, pendingDelete{parent: frame.Parent, field: frame.Field, index: frame.Index})
	cur.SkipChildren()
	cur.Prune(frame.Message)
	return nil
}

// Finish performs the deletions collected during the pass. Deletions run
// after the walk, highest index first, so indexes recorded during the walk
// stay valid.
func (p *Pass) Finish() {
	sort.SliceStable(p.deletes, func(i, j int) bool {
		return p.deletes[i].index > p.deletes[j].index
	})
	for _, d := range p.deletes {
		list := d.parent.Mutable(d.field).List()
		n := list.Len()
		if d.index >= n {
			continue
		}
		for i := d.index; i < n-1; i++ {
			list.Set(i, list.Get(i+1))
		}
		list.Truncate(n - 1)
	}
	p.deletes = nil
}
