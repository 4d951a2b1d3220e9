// Package reporter renders lint results.
//
// Supported formats:
//   - text: compiler-style lines with colored severity sigils and source context
//   - json: a single JSON document grouped by file
//   - jsonl: one JSON object per violation
//   - sarif: SARIF 2.1.0 for code scanning
//   - github-actions: workflow command annotations
//   - markdown: a summary and a table per file
package reporter

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// ReportMetadata contains contextual information about the lint run.
type ReportMetadata struct {
	// FilesScanned is the total number of files that were scanned.
	FilesScanned int
	// RulesEnabled is the total number of rules that were active.
	RulesEnabled int
	// FixesApplied is the number of violations fixed in place.
	FixesApplied int
}

// Reporter formats and outputs lint violations.
type Reporter interface {
	// Report writes violations to the configured output. sources maps each
	// linted path to its content, for snippets.
	Report(violations []rules.Violation, sources map[string][]byte, metadata ReportMetadata) error
}

// SortViolations returns a copy of violations ordered by file, line,
// column and rule code.
func SortViolations(violations []rules.Violation) []rules.Violation {
	sorted := slices.Clone(violations)
	slices.SortStableFunc(sorted, func(a, b rules.Violation) int {
		return cmp.Or(
			cmp.Compare(a.Location.File, b.Location.File),
			cmp.Compare(a.Location.Start.Line, b.Location.Start.Line),
			cmp.Compare(a.Location.Start.Column, b.Location.Start.Column),
			cmp.Compare(a.RuleCode, b.RuleCode),
		)
	})
	return sorted
}

// Format represents an output format type.
type Format string

const (
	FormatText          Format = "text"
	FormatJSON          Format = "json"
	FormatJSONL         Format = "jsonl"
	FormatSARIF         Format = "sarif"
	FormatGitHubActions Format = "github-actions"
	FormatMarkdown      Format = "markdown"
)

var formatNames = map[string]Format{
	"":               FormatText,
	"text":           FormatText,
	"json":           FormatJSON,
	"jsonl":          FormatJSONL,
	"ndjson":         FormatJSONL,
	"sarif":          FormatSARIF,
	"github-actions": FormatGitHubActions,
	"github":         FormatGitHubActions,
	"markdown":       FormatMarkdown,
	"md":             FormatMarkdown,
}

// ParseFormat parses a format name or alias.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatNames[s]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown format: %q (valid: text, json, jsonl, sarif, github-actions, markdown)", s)
}

// Options configures reporter creation.
type Options struct {
	Format Format

	// Writer is the output destination. Nil means stdout.
	Writer io.Writer

	// Color forces colored text output on or off. Nil means auto-detect.
	Color *bool

	// ShowSource prints source context under each text diagnostic.
	ShowSource bool

	// Tool identification for SARIF.
	ToolVersion string
	ToolName    string
	ToolURI     string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Writer:      os.Stdout,
		ShowSource:  true,
		ToolName:    defaultToolName,
		ToolURI:     defaultToolURI,
		ToolVersion: "dev",
	}
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return &textReporterAdapter{
			reporter: NewTextReporter(TextOptions{
				Color:           opts.Color,
				SyntaxHighlight: opts.Color == nil || *opts.Color,
				ShowSource:      opts.ShowSource,
			}),
			writer: w,
		}, nil
	case FormatJSON:
		return NewJSONReporter(w), nil
	case FormatJSONL:
		return NewJSONLReporter(w), nil
	case FormatSARIF:
		return NewSARIFReporter(w, opts.ToolName, opts.ToolVersion, opts.ToolURI), nil
	case FormatGitHubActions:
		return NewGitHubActionsReporter(w), nil
	case FormatMarkdown:
		return NewMarkdownReporter(w), nil
	}
	return nil, fmt.Errorf("unknown format: %q", opts.Format)
}

// textReporterAdapter prints the diagnostics, then the summary.
type textReporterAdapter struct {
	reporter *TextReporter
	writer   io.Writer
}

func (a *textReporterAdapter) Report(violations []rules.Violation, sources map[string][]byte, meta ReportMetadata) error {
	if err := a.reporter.Print(a.writer, violations, sources); err != nil {
		return err
	}
	return a.reporter.PrintSummary(a.writer, violations, meta)
}

// GetWriter opens an output destination: "stdout" (or empty), "stderr",
// or a file path, which is created or truncated. The returned function
// closes the file.
func GetWriter(path string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch path {
	case "", "stdout":
		return os.Stdout, noop, nil
	case "stderr":
		return os.Stderr, noop, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create report file: %w", err)
	}
	return f, f.Close, nil
}
