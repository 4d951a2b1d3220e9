package ast

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Locations maps every node of a statement tree to its byte offset relative
// to the start of the statement text.
type Locations map[proto.Message]int

// Of returns the location of m, or fallback when m was not tagged (for
// instance a node created by a fix after tagging).
func (l Locations) Of(m proto.Message, fallback int) int {
	if loc, ok := l[m]; ok {
		return loc
	}
	return fallback
}

// Tag computes locations for every node under root.
//
// A node carrying its own non-negative "location" field uses it. Nodes
// without one (or with the parser's -1 "unknown") inherit the location of
// their nearest ancestor; the root falls back to fallback, normally the
// offset of the statement's first token.
func Tag(root proto.Message, fallback int) Locations {
	locs := make(Locations)
	Walk(root, func(c *Cursor) {
		m := c.Message()
		if loc, ok := OwnLocation(m); ok && loc >= 0 {
			locs[m] = loc
			return
		}
		if parent := c.Parent(); parent != nil {
			locs[m] = locs[parent]
			return
		}
		locs[m] = fallback
	})
	return locs
}

// OwnLocation returns the value of m's "location" field, if it has one.
func OwnLocation(m proto.Message) (int, bool) {
	r := m.ProtoReflect()
	fd := r.Descriptor().Fields().ByName("location")
	if fd == nil || fd.Kind() != protoreflect.Int32Kind {
		return 0, false
	}
	return int(r.Get(fd).Int()), true
}

// ClearLocations sets every "location" field under root to -1, which makes
// structurally identical trees compare equal regardless of where they were
// written.
func ClearLocations(root proto.Message) {
	Walk(root, func(c *Cursor) {
		r := c.Message().ProtoReflect()
		fd := r.Descriptor().Fields().ByName("location")
		if fd == nil || fd.Kind() != protoreflect.Int32Kind {
			return
		}
		r.Set(fd, protoreflect.ValueOfInt32(-1))
	})
}
