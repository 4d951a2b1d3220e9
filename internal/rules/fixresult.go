package rules

import (
	"google.golang.org/protobuf/proto"

	"github.com/bolajiwahab/pgrubic-sub001/internal/ast"
)

// FixAction is what the engine does with a node after its fix ran.
type FixAction int

const (
	// FixKeep leaves the (possibly mutated in place) node where it is.
	FixKeep FixAction = iota
	// FixReplace substitutes a new node in the parent slot.
	FixReplace
	// FixDelete removes the node from its parent list.
	FixDelete
)

// String returns a human-readable name for the action.
func (a FixAction) String() string {
	switch a {
	case FixKeep:
		return "keep"
	case FixReplace:
		return "replace"
	case FixDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// FixResult is returned by a fix closure.
type FixResult struct {
	action FixAction
	node   proto.Message
}

// Keep returns the result of a fix that mutated the node in place.
func Keep() FixResult {
	return FixResult{action: FixKeep}
}

// Replace returns a result substituting node for the fixed node.
//
// A *pg_query.Node replaces the enclosing Node slot, which may change the
// node kind (e.g. SELECT INTO becoming CREATE TABLE AS). Any other message
// must have the fixed node's type and is merged over it in place.
func Replace(node proto.Message) FixResult {
	return FixResult{action: FixReplace, node: node}
}

// Delete returns a result removing the fixed node from its parent list.
func Delete() FixResult {
	return FixResult{action: FixDelete}
}

// Action returns the requested action.
func (r FixResult) Action() FixAction {
	return r.action
}

// Node returns the replacement node for FixReplace.
func (r FixResult) Node() proto.Message {
	return r.node
}

// FixFunc computes a fix. It runs only when the engine decides the fix
// should be applied, so it may mutate the AST freely.
type FixFunc func() FixResult

// FixApplier is implemented by the fix coordinator. The dispatcher asks it
// to claim a node before running a fix and to apply the fix's result.
type FixApplier interface {
	// Claim reserves node for a fix in the current pass. It returns false
	// when another rule already fixed the node; the later fix is deferred
	// to the next pass.
	Claim(node proto.Message) bool

	// Apply carries out result for the node at the cursor's position.
	Apply(cur *ast.Cursor, result FixResult) error
}
