package reporter

import (
	"encoding/json"
	"io"
	"path/filepath"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// JSONOutput is the document written by the json format.
type JSONOutput struct {
	Files        []FileResult `json:"files"`
	Summary      Summary      `json:"summary"`
	FilesScanned int          `json:"files_scanned"`
	RulesEnabled int          `json:"rules_enabled"`
	FixesApplied int          `json:"fixes_applied"`
}

// FileResult holds the violations of one file, in report order.
type FileResult struct {
	File       string            `json:"file"`
	Violations []rules.Violation `json:"violations"`
}

// Summary counts violations per severity. Files is the number of files
// with at least one violation.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Style    int `json:"style"`
	Fixed    int `json:"fixed"`
	Files    int `json:"files"`
}

func (s *Summary) add(v rules.Violation) {
	s.Total++
	if v.IsFixApplied {
		s.Fixed++
	}
	switch v.Severity {
	case rules.SeverityError:
		s.Errors++
	case rules.SeverityWarning:
		s.Warnings++
	case rules.SeverityInfo:
		s.Info++
	case rules.SeverityStyle:
		s.Style++
	case rules.SeverityOff:
	}
}

// JSONReporter writes one indented JSON document grouped by file.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(violations []rules.Violation, _ map[string][]byte, meta ReportMetadata) error {
	out := JSONOutput{
		Files:        []FileResult{},
		FilesScanned: meta.FilesScanned,
		RulesEnabled: meta.RulesEnabled,
		FixesApplied: meta.FixesApplied,
	}

	// Sorting keeps each file's violations contiguous.
	for _, v := range SortViolations(violations) {
		v.Location.File = filepath.ToSlash(v.Location.File)
		out.Summary.add(v)
		if n := len(out.Files); n > 0 && out.Files[n-1].File == v.Location.File {
			out.Files[n-1].Violations = append(out.Files[n-1].Violations, v)
			continue
		}
		out.Files = append(out.Files, FileResult{File: v.Location.File, Violations: []rules.Violation{v}})
	}
	out.Summary.Files = len(out.Files)

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// JSONLReporter writes one compact JSON object per violation.
type JSONLReporter struct {
	writer io.Writer
}

// NewJSONLReporter creates a new JSON Lines reporter.
func NewJSONLReporter(w io.Writer) *JSONLReporter {
	return &JSONLReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONLReporter) Report(violations []rules.Violation, _ map[string][]byte, _ ReportMetadata) error {
	enc := json.NewEncoder(r.writer)
	for _, v := range SortViolations(violations) {
		v.Location.File = filepath.ToSlash(v.Location.File)
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}
