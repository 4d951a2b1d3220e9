package reporter

import (
	"bytes"
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// BugHint is printed under internal diagnostics.
const BugHint = "This is a bug in pgrubic; please open an issue with a minimal reproduction"

// useColors honors NO_COLOR and CLICOLOR_FORCE.
var useColors = termenv.EnvColorProfile() != termenv.Ascii

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

var (
	codeStyle   = fg("196").Bold(true)
	pathStyle   = fg("252").Bold(true)
	helpStyle   = fg("114")
	docStyle    = fg("39").Underline(true)
	fixedStyle  = fg("34").Italic(true)
	gutterStyle = fg("240")
	ruleStyle   = fg("238")
	markerStyle = fg("196").Bold(true)
	bugStyle    = fg("201").Bold(true)

	sigilStyles = map[rules.Severity]lipgloss.Style{
		rules.SeverityError:   fg("196").Bold(true),
		rules.SeverityWarning: fg("214").Bold(true),
		rules.SeverityInfo:    fg("39").Bold(true),
		rules.SeverityStyle:   fg("245").Bold(true),
	}
)

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color forces styling on or off. Nil auto-detects.
	Color *bool

	// SyntaxHighlight colors SQL in snippets. Needs color.
	SyntaxHighlight bool

	// ShowSource prints the offending lines under each diagnostic.
	ShowSource bool

	// ChromaStyle names the highlighting theme. Empty picks one for the
	// terminal background.
	ChromaStyle string
}

// TextReporter prints one compiler-style line per violation.
type TextReporter struct {
	opts  TextOptions
	color bool

	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewTextReporter creates a new text reporter with the given options.
func NewTextReporter(opts TextOptions) *TextReporter {
	r := &TextReporter{opts: opts, color: useColors}
	if opts.Color != nil {
		r.color = *opts.Color
	}
	if r.color && opts.SyntaxHighlight {
		r.lexer = chroma.Coalesce(cmp.Or(lexers.Get("postgresql"), lexers.Fallback))
		theme := opts.ChromaStyle
		if theme == "" {
			theme = "github"
			if lipgloss.HasDarkBackground() {
				theme = "monokai"
			}
		}
		r.style = cmp.Or(styles.Get(theme), styles.Fallback)
		r.formatter = cmp.Or(formatters.Get("terminal256"), formatters.Fallback)
	}
	return r
}

func (r *TextReporter) paint(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Print writes violations grouped by file. Files keep the order they
// first appear in; each file is sorted by position and rule code.
func (r *TextReporter) Print(w io.Writer, violations []rules.Violation, sources map[string][]byte) error {
	var files []string
	byFile := make(map[string][]rules.Violation)
	for _, v := range violations {
		f := v.Location.File
		if _, seen := byFile[f]; !seen {
			files = append(files, f)
		}
		byFile[f] = append(byFile[f], v)
	}

	for _, f := range files {
		group := byFile[f]
		slices.SortStableFunc(group, func(a, b rules.Violation) int {
			return cmp.Or(
				cmp.Compare(a.Location.Start.Line, b.Location.Start.Line),
				cmp.Compare(a.Location.Start.Column, b.Location.Start.Column),
				cmp.Compare(a.RuleCode, b.RuleCode),
			)
		})
		for _, v := range group {
			if err := r.printViolation(w, v, sources[f]); err != nil {
				return err
			}
		}
	}
	return nil
}

// printViolation writes "SIGIL path:line:column: CODE message" and the
// notes under it.
func (r *TextReporter) printViolation(w io.Writer, v rules.Violation, source []byte) error {
	sigil, ok := sigilStyles[v.Severity]
	if !ok {
		sigil = sigilStyles[rules.SeverityWarning]
	}
	code, message := r.paint(codeStyle, v.RuleCode), v.Message
	if v.IsBug() {
		sigil = bugStyle
		code, message = r.paint(bugStyle, v.RuleCode), r.paint(bugStyle, v.Message)
	}

	where := v.Location.File
	if !v.Location.IsFileLevel() {
		where = fmt.Sprintf("%s:%d:%d", where, v.Location.Start.Line, v.Location.Start.Column)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s %s", r.paint(sigil, v.Severity.Sigil()), r.paint(pathStyle, where), code, message)
	if v.IsFixApplied {
		b.WriteString(" " + r.paint(fixedStyle, "[fixed]"))
	}
	b.WriteByte('\n')

	if r.opts.ShowSource && !v.Location.IsFileLevel() && len(source) > 0 {
		r.writeSnippet(&b, v.Location, source)
	}
	if v.Help != "" {
		b.WriteString(r.paint(helpStyle, "  help: "+v.Help) + "\n")
	}
	if v.DocURL != "" {
		b.WriteString("  docs: " + r.paint(docStyle, v.DocURL) + "\n")
	}
	if v.IsBug() {
		b.WriteString(r.paint(bugStyle, "  "+BugHint) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// writeSnippet renders the lines of loc framed by one line of context.
// A blank line after the range is not shown.
func (r *TextReporter) writeSnippet(b *strings.Builder, loc rules.Location, source []byte) {
	lines := strings.Split(string(source), "\n")
	first := loc.Start.Line
	if first < 1 || first > len(lines) {
		return
	}
	last := first
	if !loc.IsPointLocation() && loc.End.Line > first {
		last = min(loc.End.Line, len(lines))
	}
	first = max(first-1, 1)
	if last < len(lines) && strings.TrimSpace(lines[last]) != "" {
		last++
	}

	bar, frame := "|", "  --------------------"
	if r.color {
		bar, frame = "│", r.paint(ruleStyle, "  ────────────────────")
	}

	b.WriteString(frame + "\n")
	for n := first; n <= last; n++ {
		text := strings.TrimSuffix(lines[n-1], "\r")
		if r.lexer != nil {
			text = r.highlight(text)
		}
		marker := "   "
		if lineInRange(n, loc.Start.Line, loc.End.Line) {
			marker = r.paint(markerStyle, ">>>")
		}
		fmt.Fprintf(b, "%s %s %s\n", r.paint(gutterStyle, fmt.Sprintf(" %3d %s", n, bar)), marker, text)
	}
	b.WriteString(frame + "\n")
}

func (r *TextReporter) highlight(line string) string {
	tokens, err := r.lexer.Tokenise(nil, line)
	if err != nil {
		return line
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, tokens); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// PrintSummary writes the closing tally of a run. A clean run with no
// fixes prints nothing.
func (r *TextReporter) PrintSummary(w io.Writer, violations []rules.Violation, meta ReportMetadata) error {
	open := 0
	for _, v := range violations {
		if !v.IsFixApplied {
			open++
		}
	}
	if open == 0 && meta.FixesApplied == 0 {
		return nil
	}

	line := fmt.Sprintf("Found %d %s", open, pluralize(open, "violation", "violations"))
	if meta.FixesApplied > 0 {
		line += fmt.Sprintf(", fixed %d", meta.FixesApplied)
	}
	if meta.FilesScanned > 0 {
		line += fmt.Sprintf(", %d %s checked", meta.FilesScanned, pluralize(meta.FilesScanned, "file", "files"))
	}
	_, err := fmt.Fprintln(w, line+".")
	return err
}

// lineInRange reports whether line lies in [start, end]. An end before
// start means a single line.
func lineInRange(line, start, end int) bool {
	return line >= start && line <= max(start, end)
}
