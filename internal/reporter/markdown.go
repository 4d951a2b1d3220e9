package reporter

import (
	"cmp"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// MarkdownReporter renders violations as a markdown table, most severe
// first. It suits pull request comments and job summaries.
type MarkdownReporter struct {
	writer io.Writer
}

// NewMarkdownReporter creates a new Markdown reporter.
func NewMarkdownReporter(w io.Writer) *MarkdownReporter {
	return &MarkdownReporter{writer: w}
}

// Report implements Reporter.
func (r *MarkdownReporter) Report(violations []rules.Violation, _ map[string][]byte, _ ReportMetadata) error {
	var b strings.Builder
	if len(violations) == 0 {
		b.WriteString("**No issues found**\n")
	} else {
		writeMarkdownTable(&b, bySeverity(violations))
	}
	_, err := io.WriteString(r.writer, b.String())
	return err
}

func writeMarkdownTable(b *strings.Builder, sorted []rules.Violation) {
	files := make(map[string]bool)
	for i := range sorted {
		sorted[i].Location.File = filepath.ToSlash(sorted[i].Location.File)
		files[sorted[i].Location.File] = true
	}
	issues := pluralize(len(sorted), "issue", "issues")

	if len(files) == 1 {
		fmt.Fprintf(b, "**%d %s** in `%s`\n\n", len(sorted), issues, sorted[0].Location.File)
		b.WriteString("| Line | Issue |\n|------|-------|\n")
		for _, v := range sorted {
			fmt.Fprintf(b, "| %s | %s |\n", formatLineNumber(v), issueCell(v))
		}
		return
	}

	fmt.Fprintf(b, "**%d %s** across %d files\n\n", len(sorted), issues, len(files))
	b.WriteString("| File | Line | Issue |\n|------|------|-------|\n")
	for _, v := range sorted {
		fmt.Fprintf(b, "| %s | %s | %s |\n", v.Location.File, formatLineNumber(v), issueCell(v))
	}
}

func issueCell(v rules.Violation) string {
	msg := v.Message
	if v.IsFixApplied {
		msg += " (fixed)"
	}
	return fmt.Sprintf("%s `%s` %s", severityEmoji(v.Severity), v.RuleCode, escapeMarkdown(msg))
}

// formatLineNumber returns the 1-based line, or "-" for file-level findings.
func formatLineNumber(v rules.Violation) string {
	if v.Location.IsFileLevel() || v.Location.Start.Line <= 0 {
		return "-"
	}
	return strconv.Itoa(v.Location.Start.Line)
}

// bySeverity returns a copy ordered by severity, then file and line.
func bySeverity(violations []rules.Violation) []rules.Violation {
	sorted := slices.Clone(violations)
	slices.SortStableFunc(sorted, func(a, b rules.Violation) int {
		return cmp.Or(
			cmp.Compare(severityRank(a.Severity), severityRank(b.Severity)),
			cmp.Compare(a.Location.File, b.Location.File),
			cmp.Compare(a.Location.Start.Line, b.Location.Start.Line),
		)
	})
	return sorted
}

// severityRank orders severities for display, lowest first.
func severityRank(s rules.Severity) int {
	switch s {
	case rules.SeverityError:
		return 0
	case rules.SeverityWarning:
		return 1
	case rules.SeverityInfo:
		return 2
	case rules.SeverityStyle:
		return 3
	case rules.SeverityOff:
		return 5
	}
	return 4
}

var severityEmojis = map[rules.Severity]string{
	rules.SeverityError: "❌",
	rules.SeverityInfo:  "ℹ️",
	rules.SeverityStyle: "💅",
	rules.SeverityOff:   "⭕",
}

func severityEmoji(s rules.Severity) string {
	if e, ok := severityEmojis[s]; ok {
		return e
	}
	return "⚠️"
}

var markdownCell = strings.NewReplacer("|", "\\|", "\n", " ", "\r", "")

// escapeMarkdown keeps a string inside one table cell.
func escapeMarkdown(s string) string {
	return markdownCell.Replace(s)
}

func pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
