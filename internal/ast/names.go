package ast

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	pg_query "github.com/pganalyze/pg_query_go/v6"
	"google.golang.org/protobuf/proto"
)

// StringValue returns the value of a String node, or "" for anything else.
func StringValue(n *pg_query.Node) string {
	return n.GetString_().GetSval()
}

// StringList returns the values of a list of String nodes, skipping others.
func StringList(nodes []*pg_query.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if s := n.GetString_(); s != nil {
			out = append(out, s.GetSval())
		}
	}
	return out
}

// QualifiedName joins a dotted name list such as a function or type name.
func QualifiedName(nodes []*pg_query.Node) string {
	return strings.Join(StringList(nodes), ".")
}

// RangeVarName returns the possibly schema-qualified name of a relation.
func RangeVarName(rv *pg_query.RangeVar) string {
	if rv == nil {
		return ""
	}
	parts := make([]string, 0, 3)
	if rv.GetCatalogname() != "" {
		parts = append(parts, rv.GetCatalogname())
	}
	if rv.GetSchemaname() != "" {
		parts = append(parts, rv.GetSchemaname())
	}
	parts = append(parts, rv.GetRelname())
	return strings.Join(parts, ".")
}

// MakeString builds a String node.
func MakeString(s string) *pg_query.Node {
	return &pg_query.Node{Node: &pg_query.Node_String_{String_: &pg_query.String{Sval: s}}}
}

// TypeNameParts returns the lower-cased name parts of a type, e.g.
// ["pg_catalog", "varchar"] for "character varying(10)".
func TypeNameParts(tn *pg_query.TypeName) []string {
	parts := StringList(tn.GetNames())
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return parts
}

// TypeBaseName returns the unqualified, lower-cased type name.
func TypeBaseName(tn *pg_query.TypeName) string {
	parts := TypeNameParts(tn)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// IsType reports whether tn names one of the given types. A name matches
// either unqualified or qualified with pg_catalog.
func IsType(tn *pg_query.TypeName, names ...string) bool {
	parts := TypeNameParts(tn)
	switch {
	case len(parts) == 1:
	case len(parts) == 2 && parts[0] == "pg_catalog":
	default:
		return false
	}
	base := parts[len(parts)-1]
	for _, name := range names {
		if base == name {
			return true
		}
	}
	return false
}

// SetTypeName replaces the names and modifiers of tn in place, keeping its
// location and array bounds.
func SetTypeName(tn *pg_query.TypeName, replacement *pg_query.TypeName) {
	tn.Names = replacement.GetNames()
	tn.Typmods = replacement.GetTypmods()
	tn.Typemod = replacement.GetTypemod()
	tn.PctType = replacement.GetPctType()
	tn.Setof = replacement.GetSetof()
	if len(replacement.GetArrayBounds()) > 0 {
		tn.ArrayBounds = replacement.GetArrayBounds()
	}
}

// ParseTypeName parses a type expression such as "numeric(10, 2)" or
// "timestamptz" into a TypeName node.
func ParseTypeName(typ string) (*pg_query.TypeName, error) {
	result, err := pg_query.Parse("SELECT NULL::" + typ)
	if err != nil {
		return nil, fmt.Errorf("parse type %q: %w", typ, err)
	}
	stmts := result.GetStmts()
	if len(stmts) != 1 {
		return nil, fmt.Errorf("parse type %q: unexpected statement count", typ)
	}
	targets := stmts[0].GetStmt().GetSelectStmt().GetTargetList()
	if len(targets) != 1 {
		return nil, fmt.Errorf("parse type %q: not a single type", typ)
	}
	tn := targets[0].GetResTarget().GetVal().GetTypeCast().GetTypeName()
	if tn == nil {
		return nil, errors.New("parse type " + typ + ": no type name")
	}
	ClearLocations(tn)
	return tn, nil
}

// DefElemString returns the string argument of the named option in a
// DefElem list (e.g. "language" in CREATE FUNCTION options).
func DefElemString(options []*pg_query.Node, name string) (string, bool) {
	for _, opt := range options {
		de := opt.GetDefElem()
		if de == nil || !strings.EqualFold(de.GetDefname(), name) {
			continue
		}
		if s := de.GetArg().GetString_(); s != nil {
			return s.GetSval(), true
		}
		return "", true
	}
	return "", false
}

// Fingerprint returns a stable digest of the given nodes that ignores
// source locations. Structurally identical trees share a fingerprint.
func Fingerprint(msgs ...proto.Message) string {
	h := xxhash.New()
	opts := proto.MarshalOptions{Deterministic: true}
	for _, m := range msgs {
		if m == nil || !m.ProtoReflect().IsValid() {
			_, _ = h.Write([]byte{0})
			continue
		}
		clone := proto.Clone(m)
		ClearLocations(clone)
		data, err := opts.Marshal(clone)
		if err != nil {
			_, _ = h.Write([]byte{1})
			continue
		}
		_, _ = h.Write(data)
		_, _ = h.Write([]byte{0xff})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ListFingerprint fingerprints a node list as one unit.
func ListFingerprint(nodes []*pg_query.Node) string {
	msgs := make([]proto.Message, 0, len(nodes))
	for _, n := range nodes {
		msgs = append(msgs, n)
	}
	return Fingerprint(msgs...)
}
