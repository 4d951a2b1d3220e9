package rules

import (
	"errors"
	"testing"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// mockRule is a simple rule for testing.
type mockRule struct {
	code     string
	name     string
	category string
	severity Severity
	fixable  bool
}

func (r *mockRule) Metadata() RuleMetadata {
	name := r.name
	if name == "" {
		name = "mock-" + r.code
	}
	return RuleMetadata{
		Code:            r.code,
		Name:            name,
		Description:     "A mock rule for testing",
		DefaultSeverity: r.severity,
		Category:        r.category,
		IsAutoFixable:   r.fixable,
	}
}

func (r *mockRule) Handlers() []Handler {
	return []Handler{On(func(*Context, *pg_query.CreateStmt) {})}
}

func ctor(r *mockRule) Constructor {
	return func() Rule {
		copied := *r
		return &copied
	}
}

func newTestRegistry(ruleList ...*mockRule) *Registry {
	reg := NewRegistry()
	for _, r := range ruleList {
		reg.Register(ctor(r))
	}
	return reg
}

func codes(rs []Rule) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Metadata().Code)
	}
	return out
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(&mockRule{code: "GN001"})

	if !reg.Has("GN001") {
		t.Error("Has() = false after registration")
	}
	if !reg.Has("gn001") {
		t.Error("Has() should be case-insensitive")
	}
	if reg.Has("GN002") {
		t.Error("Has() = true for unregistered rule")
	}
}

func TestRegistry_DuplicateCode(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(&mockRule{code: "GN001", name: "a"}, &mockRule{code: "GN001", name: "b"})

	_, err := reg.All()
	if !errors.Is(err, ErrDuplicateRule) {
		t.Fatalf("expected ErrDuplicateRule, got %v", err)
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(&mockRule{code: "GN001", name: "same"}, &mockRule{code: "GN002", name: "same"})

	_, err := reg.All()
	if !errors.Is(err, ErrDuplicateRule) {
		t.Fatalf("expected ErrDuplicateRule, got %v", err)
	}
}

func TestRegistry_AllSortedAndFresh(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(&mockRule{code: "TP001"}, &mockRule{code: "CT001"}, &mockRule{code: "GN001"})

	first, err := reg.All()
	if err != nil {
		t.Fatal(err)
	}
	got := codes(first)
	want := []string{"CT001", "GN001", "TP001"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("All() = %v, want %v", got, want)
		}
	}

	second, err := reg.All()
	if err != nil {
		t.Fatal(err)
	}
	if first[0] == second[0] {
		t.Error("All() should return fresh instances")
	}
}

func TestRegistry_Select(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(
		&mockRule{code: "GN001"},
		&mockRule{code: "GN002"},
		&mockRule{code: "GN024"},
		&mockRule{code: "CT001"},
		&mockRule{code: "TP003", name: "varchar"},
	)

	tests := []struct {
		name    string
		selects []string
		ignores []string
		want    []string
	}{
		{"empty selects all", nil, nil, []string{"CT001", "GN001", "GN002", "GN024", "TP003"}},
		{"prefix", []string{"GN"}, nil, []string{"GN001", "GN002", "GN024"}},
		{"glob", []string{"GN00?"}, nil, []string{"GN001", "GN002"}},
		{"exact lowercase", []string{"ct001"}, nil, []string{"CT001"}},
		{"ignore wins", []string{"GN"}, []string{"GN002"}, []string{"GN001", "GN024"}},
		{"ignore glob", nil, []string{"G*"}, []string{"CT001", "TP003"}},
		{"by name", []string{"varchar"}, nil, []string{"TP003"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rs, err := reg.Select(tt.selects, tt.ignores)
			if err != nil {
				t.Fatal(err)
			}
			got := codes(rs)
			if len(got) != len(tt.want) {
				t.Fatalf("Select() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Select() = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestMatchesCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		pattern string
		code    string
		want    bool
	}{
		{"GN", "GN001", true},
		{"GN0", "GN001", true},
		{"GN001", "GN001", true},
		{"GN*", "GN001", true},
		{"*", "GN001", true},
		{"CT", "GN001", false},
		{"N", "GN001", false},
		{"GN0011", "GN001", false},
		{"", "GN001", false},
		{"[GC]N", "GN001", true},
	}

	for _, tt := range tests {
		if got := MatchesCode(tt.pattern, tt.code); got != tt.want {
			t.Errorf("MatchesCode(%q, %q) = %v, want %v", tt.pattern, tt.code, got, tt.want)
		}
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	t.Parallel()
	reg := newTestRegistry(
		&mockRule{code: "GN001", category: CategoryGeneral},
		&mockRule{code: "GN002", category: CategoryGeneral},
		&mockRule{code: "TP001", category: CategoryTyping},
	)

	by := reg.ByCategory()
	if len(by[CategoryGeneral]) != 2 {
		t.Errorf("general = %d, want 2", len(by[CategoryGeneral]))
	}
	if len(by[CategoryTyping]) != 1 {
		t.Errorf("typing = %d, want 1", len(by[CategoryTyping]))
	}
}
