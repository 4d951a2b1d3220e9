package reporter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

func sampleViolations() []rules.Violation {
	fixed := rules.NewViolation(rules.NewPointLocation("b.sql", 1, 0), "CT001", "Cascade delete detected", rules.SeverityWarning)
	fixed.IsFixApplied = true
	fixed.IsAutoFixable = true
	return []rules.Violation{
		rules.NewViolation(rules.NewPointLocation("a.sql", 5, 2), "TP003", "Prefer text to varchar", rules.SeverityWarning),
		rules.NewViolation(rules.NewPointLocation("a.sql", 1, 0), "US001", "Drop table detected", rules.SeverityError),
		fixed,
	}
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	meta := ReportMetadata{FilesScanned: 3, RulesEnabled: 40, FixesApplied: 1}
	if err := NewJSONReporter(&buf).Report(sampleViolations(), nil, meta); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var output JSONOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}

	if len(output.Files) != 2 || output.Files[0].File != "a.sql" {
		t.Fatalf("unexpected files %+v", output.Files)
	}
	if got := output.Files[0].Violations[0].RuleCode; got != "US001" {
		t.Errorf("violations should be sorted by line, first = %s", got)
	}
	if output.Summary.Total != 3 || output.Summary.Errors != 1 || output.Summary.Warnings != 2 {
		t.Errorf("unexpected summary %+v", output.Summary)
	}
	if output.Summary.Fixed != 1 || output.FixesApplied != 1 {
		t.Errorf("fixed counts not reported: %+v", output)
	}
	if output.FilesScanned != 3 || output.RulesEnabled != 40 {
		t.Errorf("metadata not reported: %+v", output)
	}
}

func TestJSONReporterEmpty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := NewJSONReporter(&buf).Report(nil, nil, ReportMetadata{}); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["files"].([]any); !ok {
		t.Errorf("files should be an empty array, got %v", raw["files"])
	}
}

func TestJSONLReporter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := NewJSONLReporter(&buf).Report(sampleViolations(), nil, ReportMetadata{}); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var got []map[string]any
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var obj map[string]any
		if err := json.Unmarshal(sc.Bytes(), &obj); err != nil {
			t.Fatalf("line %q is not JSON: %v", sc.Text(), err)
		}
		got = append(got, obj)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(got))
	}
	if got[0]["rule"] != "US001" || got[0]["severity"] != "error" {
		t.Errorf("unexpected first object %v", got[0])
	}
	if got[2]["isFixApplied"] != true {
		t.Errorf("fix flag lost: %v", got[2])
	}
}
