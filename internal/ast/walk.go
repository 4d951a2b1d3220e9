// Package ast provides traversal and location helpers for the PostgreSQL
// parse tree produced by pg_query.
//
// The parse tree is a graph of protobuf messages. Walk visits every message
// in pre-order using protobuf reflection, so no per-node-type traversal code
// is needed. Field declaration order approximates source order for composite
// nodes and is stable across runs.
package ast

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Frame describes one step of a walk: the visited message and the slot in its
// parent that holds it.
type Frame struct {
	// Message is the visited node.
	Message proto.Message

	// Parent is the message holding Message, nil for the walk root.
	Parent protoreflect.Message

	// Field is the parent field holding Message, nil for the walk root.
	Field protoreflect.FieldDescriptor

	// Index is the element index when Field is a list, otherwise -1.
	Index int
}

// InList reports whether the frame's message is an element of a list field.
func (f Frame) InList() bool {
	return f.Field != nil && f.Field.IsList() && f.Index >= 0
}

// Cursor exposes the walk state to a visitor: the current frame and the
// stack of ancestors leading to it.
type Cursor struct {
	frames []Frame
	pruned map[proto.Message]struct{}
}

// Frame returns the current frame.
func (c *Cursor) Frame() Frame {
	return c.frames[len(c.frames)-1]
}

// Message returns the current node.
func (c *Cursor) Message() proto.Message {
	return c.Frame().Message
}

// Depth returns the number of frames on the stack, the root included.
func (c *Cursor) Depth() int {
	return len(c.frames)
}

// Ancestor returns the frame n levels above the current one (1 = parent).
func (c *Cursor) Ancestor(n int) (Frame, bool) {
	idx := len(c.frames) - 1 - n
	if n < 0 || idx < 0 {
		return Frame{}, false
	}
	return c.frames[idx], true
}

// Parent returns the parent node, or nil at the root.
func (c *Cursor) Parent() proto.Message {
	f, ok := c.Ancestor(1)
	if !ok {
		return nil
	}
	return f.Message
}

// Ancestors returns the ancestors of the current node, nearest first.
func (c *Cursor) Ancestors() []proto.Message {
	out := make([]proto.Message, 0, len(c.frames)-1)
	for i := len(c.frames) - 2; i >= 0; i-- {
		out = append(out, c.frames[i].Message)
	}
	return out
}

// Prune stops the walk from descending into m (or visiting any further
// children of m when it is already being walked).
func (c *Cursor) Prune(m proto.Message) {
	if c.pruned == nil {
		c.pruned = make(map[proto.Message]struct{})
	}
	c.pruned[m] = struct{}{}
}

// SkipChildren prunes the current node.
func (c *Cursor) SkipChildren() {
	c.Prune(c.Message())
}

func (c *Cursor) isPruned(m proto.Message) bool {
	_, ok := c.pruned[m]
	return ok
}

// Walk visits root and every message reachable from it in pre-order.
func Walk(root proto.Message, visit func(*Cursor)) {
	if root == nil || !root.ProtoReflect().IsValid() {
		return
	}
	c := &Cursor{}
	c.walk(Frame{Message: root, Index: -1}, visit)
}

func (c *Cursor) walk(f Frame, visit func(*Cursor)) {
	c.frames = append(c.frames, f)
	defer func() { c.frames = c.frames[:len(c.frames)-1] }()

	visit(c)
	if c.isPruned(f.Message) {
		return
	}

	m := f.Message.ProtoReflect()
	fields := m.Descriptor().Fields()
	for i := range fields.Len() {
		fd := fields.Get(i)
		if fd.Message() == nil || fd.IsMap() || !m.Has(fd) {
			continue
		}

		if fd.IsList() {
			list := m.Get(fd).List()
			for j := 0; j < list.Len(); j++ {
				c.walk(Frame{Message: list.Get(j).Message().Interface(), Parent: m, Field: fd, Index: j}, visit)
				if c.isPruned(f.Message) {
					return
				}
			}
			continue
		}

		c.walk(Frame{Message: m.Get(fd).Message().Interface(), Parent: m, Field: fd, Index: -1}, visit)
		if c.isPruned(f.Message) {
			return
		}
	}
}

// Kind returns the node kind of m: its protobuf message name
// (e.g. "CreateStmt", "A_Expr").
func Kind(m proto.Message) string {
	return string(m.ProtoReflect().Descriptor().Name())
}
