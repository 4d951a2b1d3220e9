package processor

import (
	"fmt"
	"testing"

	"github.com/bolajiwahab/pgrubic-sub001/internal/config"
	"github.com/bolajiwahab/pgrubic-sub001/internal/directive"
	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
	"github.com/bolajiwahab/pgrubic-sub001/internal/sourcemap"
)

type mockProcessor struct {
	name   string
	filter func(rules.Violation) bool
}

func (m *mockProcessor) Name() string { return m.name }

func (m *mockProcessor) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	return filterViolations(violations, m.filter)
}

func at(file string, line int, code string) rules.Violation {
	return rules.NewViolation(rules.NewPointLocation(file, line, 0), code, "msg", rules.SeverityWarning)
}

func TestChain(t *testing.T) {
	t.Parallel()
	violations := []rules.Violation{at("a.sql", 1, "GN001"), at("b.sql", 2, "CT001")}

	chain := NewChain(&mockProcessor{name: "filter-all", filter: func(rules.Violation) bool { return false }})
	result := chain.Process(violations, NewContext(config.Default(), nil))
	if len(result) != 0 {
		t.Errorf("expected 0 violations, got %d", len(result))
	}
}

func TestPathNormalization(t *testing.T) {
	t.Parallel()
	result := NewPathNormalization().Process(
		[]rules.Violation{at(`migrations\001.sql`, 1, "GN001")},
		NewContext(nil, nil),
	)
	if result[0].Location.File != "migrations/001.sql" {
		t.Errorf("expected migrations/001.sql, got %s", result[0].Location.File)
	}
}

func TestDeduplication(t *testing.T) {
	t.Parallel()
	sameKey := at("a.sql", 1, "GN001")
	otherMessage := at("a.sql", 1, "GN001")
	otherMessage.Message = "other"
	otherStatement := at("a.sql", 1, "GN001").WithStatement(10)

	result := NewDeduplication().Process([]rules.Violation{
		sameKey,
		at("a.sql", 1, "GN001"), // duplicate
		otherMessage,
		otherStatement,
		at("b.sql", 1, "GN001"),
	}, NewContext(nil, nil))

	if len(result) != 4 {
		t.Errorf("expected 4 unique violations, got %d", len(result))
	}
}

func TestSorting(t *testing.T) {
	t.Parallel()
	result := NewSorting().Process([]rules.Violation{
		at("b.sql", 2, "GN001"),
		at("a.sql", 1, "TP001"),
		at("b.sql", 1, "GN001"),
		at("a.sql", 1, "CT001"),
	}, NewContext(nil, nil))

	want := []string{"a.sql:1:CT001", "a.sql:1:TP001", "b.sql:1:GN001", "b.sql:2:GN001"}
	for i, v := range result {
		got := fmt.Sprintf("%s:%d:%s", v.File(), v.Line(), v.RuleCode)
		if got != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got)
		}
	}
}

func TestSnippetAttachment(t *testing.T) {
	t.Parallel()
	source := []byte("SELECT 1;\nDROP TABLE a CASCADE;\n")
	ctx := NewContext(config.Default(), map[string][]byte{"a.sql": source})

	result := NewSnippetAttachment().Process([]rules.Violation{at("a.sql", 2, "GN007")}, ctx)
	if result[0].SourceCode != "DROP TABLE a CASCADE;" {
		t.Errorf("unexpected snippet %q", result[0].SourceCode)
	}
}

func TestSnippetAttachment_KeepsExistingAndFileLevel(t *testing.T) {
	t.Parallel()
	existing := at("a.sql", 1, "GN001")
	existing.SourceCode = "existing snippet"
	fileLevel := rules.NewViolation(rules.NewFileLocation("a.sql"), "parse-error", "msg", rules.SeverityError)

	ctx := NewContext(config.Default(), map[string][]byte{"a.sql": []byte("SELECT 1;\n")})
	result := NewSnippetAttachment().Process([]rules.Violation{existing, fileLevel}, ctx)

	if result[0].SourceCode != "existing snippet" {
		t.Errorf("existing snippet overwritten: %q", result[0].SourceCode)
	}
	if result[1].SourceCode != "" {
		t.Errorf("file-level violation got a snippet: %q", result[1].SourceCode)
	}
}

func TestSnippetAttachment_FallsBackToSourceLine(t *testing.T) {
	t.Parallel()
	v := at("cached.sql", 3, "GN001")
	v.SourceLine = "CREATE TABLE m () INHERITS (p);"

	result := NewSnippetAttachment().Process([]rules.Violation{v}, NewContext(config.Default(), nil))
	if result[0].SourceCode != v.SourceLine {
		t.Errorf("expected source line fallback, got %q", result[0].SourceCode)
	}
}

func TestSnippetAttachment_Disabled(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Output.ShowSource = false
	ctx := NewContext(cfg, map[string][]byte{"a.sql": []byte("SELECT 1;\n")})

	result := NewSnippetAttachment().Process([]rules.Violation{at("a.sql", 1, "GN001")}, ctx)
	if result[0].SourceCode != "" {
		t.Errorf("show-source=false must not attach snippets")
	}
}

func TestSuppression(t *testing.T) {
	t.Parallel()
	source := "-- noqa: GN002\nCREATE TABLE m () INHERITS (p);\n"
	directives := []directive.Directive{
		{Kind: directive.KindStatement, RuleCode: "GN002", Location: 0, StatementLocation: 0, Line: 1},
	}
	v := rules.NewViolation(rules.NewPointLocation("a.sql", 2, 0), "GN001", "Table inheritance detected", rules.SeverityWarning)

	p := NewSuppression("a.sql", directives, sourcemap.New([]byte(source)))
	result := p.Process([]rules.Violation{v}, NewContext(nil, nil))

	if len(result) != 2 {
		t.Fatalf("expected GN001 plus one unused-noqa, got %d", len(result))
	}
	if result[0].RuleCode != "GN001" {
		t.Errorf("GN001 must survive, got %s", result[0].RuleCode)
	}
	unused := result[1]
	if unused.RuleCode != rules.CodeUnusedDirective || unused.Line() != 1 {
		t.Errorf("unexpected unused diagnostic %+v", unused)
	}
	if unused.Message != "Unused noqa directive (unused: GN002)" {
		t.Errorf("unexpected message %q", unused.Message)
	}
}

func TestSuppression_MarksUsed(t *testing.T) {
	t.Parallel()
	directives := []directive.Directive{
		{Kind: directive.KindStatement, RuleCode: directive.AStar, StatementLocation: 0, Line: 1},
	}
	v := rules.NewViolation(rules.NewPointLocation("a.sql", 2, 0), "GN001", "msg", rules.SeverityWarning)

	result := NewSuppression("a.sql", directives, nil).Process([]rules.Violation{v}, NewContext(nil, nil))

	if len(result) != 0 {
		t.Fatalf("expected everything suppressed, got %+v", result)
	}
	if !directives[0].Used {
		t.Errorf("directive should be marked used")
	}
}
