package reporter

import (
	"io"
	"maps"
	"path/filepath"
	"slices"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// Default SARIF tool information.
const (
	defaultToolName = "pgrubic"
	defaultToolURI  = "https://github.com/bolajiwahab/pgrubic"
)

// SARIFReporter writes a SARIF 2.1.0 log for code scanning services.
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
	}
}

// Report implements Reporter. The run lists every rule that fired once,
// every file with findings as an artifact, and one result per violation.
func (r *SARIFReporter) Report(violations []rules.Violation, _ map[string][]byte, _ ReportMetadata) error {
	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	sorted := SortViolations(violations)
	firstByCode := make(map[string]rules.Violation)
	files := make(map[string]struct{})
	for _, v := range sorted {
		if _, ok := firstByCode[v.RuleCode]; !ok {
			firstByCode[v.RuleCode] = v
		}
		files[filepath.ToSlash(v.Location.File)] = struct{}{}
	}

	for _, code := range slices.Sorted(maps.Keys(firstByCode)) {
		addSARIFRule(run, firstByCode[code])
	}
	for _, file := range slices.Sorted(maps.Keys(files)) {
		run.AddDistinctArtifact(file)
	}
	for _, v := range sorted {
		run.AddResult(sarifResult(v))
	}

	report := sarif.NewReport()
	report.AddRun(run)
	return report.PrettyWrite(r.writer)
}

// addSARIFRule describes a rule from the first violation reported for it.
func addSARIFRule(run *sarif.Run, v rules.Violation) {
	rule := run.AddRule(v.RuleCode)
	if v.RuleName != "" {
		rule.WithName(v.RuleName)
	}
	if v.Help != "" {
		rule.WithHelp(sarif.NewMultiformatMessageString().WithText(v.Help))
	}
	if v.DocURL != "" {
		rule.WithHelpURI(v.DocURL)
	}
}

func sarifResult(v rules.Violation) *sarif.Result {
	physical := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewSimpleArtifactLocation(filepath.ToSlash(v.Location.File)))
	if region := sarifRegion(v); region != nil {
		physical.WithRegion(region)
	}

	return sarif.NewRuleResult(v.RuleCode).
		WithMessage(sarif.NewTextMessage(v.Message)).
		WithLevel(sarifLevel(v.Severity)).
		WithLocations([]*sarif.Location{sarif.NewLocationWithPhysicalLocation(physical)})
}

// sarifRegion converts the 0-based columns of a location to SARIF's
// 1-based ones. File-level violations have no region.
func sarifRegion(v rules.Violation) *sarif.Region {
	loc := v.Location
	if loc.IsFileLevel() {
		return nil
	}
	region := sarif.NewRegion().WithStartLine(loc.Start.Line)
	if loc.Start.Column >= 0 {
		region.WithStartColumn(loc.Start.Column + 1)
	}
	if !loc.IsPointLocation() && loc.End.Line > 0 {
		region.WithEndLine(loc.End.Line)
		if loc.End.Column >= 0 {
			region.WithEndColumn(loc.End.Column + 1)
		}
	}
	if v.SourceCode != "" {
		region.WithSnippet(sarif.NewArtifactContent().WithText(v.SourceCode))
	}
	return region
}

func sarifLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return "error"
	case rules.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
