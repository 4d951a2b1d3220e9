package rules

import (
	"encoding/json"
	"testing"

	"github.com/bolajiwahab/pgrubic-sub001/internal/sourcemap"
)

func TestNewFileLocation(t *testing.T) {
	t.Parallel()
	loc := NewFileLocation("schema.sql")

	if loc.File != "schema.sql" {
		t.Errorf("File = %q, want %q", loc.File, "schema.sql")
	}
	if loc.Start.Line != -1 {
		t.Errorf("Start.Line = %d, want -1 (file-level sentinel)", loc.Start.Line)
	}
	if !loc.IsFileLevel() {
		t.Error("IsFileLevel() = false, want true")
	}
}

func TestNewPointLocation(t *testing.T) {
	t.Parallel()
	loc := NewPointLocation("schema.sql", 10, 4)

	if loc.Start.Line != 10 || loc.Start.Column != 4 {
		t.Errorf("Start = %+v, want 10:4", loc.Start)
	}
	if loc.End.Line != -1 {
		t.Errorf("End.Line = %d, want -1 (point location sentinel)", loc.End.Line)
	}
	if loc.IsFileLevel() {
		t.Error("IsFileLevel() = true, want false")
	}
	if !loc.IsPointLocation() {
		t.Error("IsPointLocation() = false, want true")
	}
}

func TestNewOffsetLocation(t *testing.T) {
	t.Parallel()
	sm := sourcemap.New([]byte("SELECT 1;\nDROP TABLE a;\n"))
	loc := NewOffsetLocation("schema.sql", sm, 15)

	if loc.Start.Line != 2 || loc.Start.Column != 5 {
		t.Errorf("Start = %+v, want 2:5", loc.Start)
	}
}

func TestNewRangeLocation(t *testing.T) {
	t.Parallel()
	loc := NewRangeLocation("schema.sql", 5, 3, 7, 10)

	if loc.Start.Line != 5 || loc.Start.Column != 3 {
		t.Errorf("Start = %+v, want 5:3", loc.Start)
	}
	if loc.End.Line != 7 || loc.End.Column != 10 {
		t.Errorf("End = %+v, want 7:10", loc.End)
	}
	if loc.IsPointLocation() {
		t.Error("IsPointLocation() = true, want false")
	}
}

func TestLocation_JSON(t *testing.T) {
	t.Parallel()
	loc := NewRangeLocation("schema.sql", 1, 5, 3, 20)

	data, err := json.Marshal(loc)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var parsed Location
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if parsed != loc {
		t.Errorf("round trip = %+v, want %+v", parsed, loc)
	}
}
