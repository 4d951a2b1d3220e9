package reporter

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// GitHubActionsReporter writes one workflow command per violation so that
// findings show up as annotations on the pull request diff:
//
//	::error file=db/schema.sql,line=3,col=5,title=US001::Drop table detected
type GitHubActionsReporter struct {
	writer io.Writer
}

// NewGitHubActionsReporter creates a new GitHub Actions reporter.
func NewGitHubActionsReporter(w io.Writer) *GitHubActionsReporter {
	return &GitHubActionsReporter{writer: w}
}

// Report implements Reporter.
func (r *GitHubActionsReporter) Report(violations []rules.Violation, _ map[string][]byte, _ ReportMetadata) error {
	for _, v := range SortViolations(violations) {
		if _, err := fmt.Fprintf(r.writer, "::%s %s::%s\n",
			githubLevel(v.Severity),
			strings.Join(githubProperties(v), ","),
			messageEscaper.Replace(githubMessage(v)),
		); err != nil {
			return err
		}
	}
	return nil
}

func githubProperties(v rules.Violation) []string {
	props := []string{"file=" + propertyEscaper.Replace(filepath.ToSlash(v.Location.File))}
	if !v.Location.IsFileLevel() {
		props = append(props, fmt.Sprintf("line=%d", v.Line()))
		if v.Column() >= 0 {
			props = append(props, fmt.Sprintf("col=%d", v.Column()+1))
		}
		if end := v.Location.End; !v.Location.IsPointLocation() && end.Line > v.Line() {
			props = append(props, fmt.Sprintf("endLine=%d", end.Line))
		}
	}
	title := v.RuleCode
	if v.RuleName != "" {
		title += " " + v.RuleName
	}
	return append(props, "title="+propertyEscaper.Replace(title))
}

// githubMessage is the annotation body: the message, then the help line
// and the bug hint for internal diagnostics.
func githubMessage(v rules.Violation) string {
	msg := v.Message
	if v.Help != "" {
		msg += "\nHelp: " + v.Help
	}
	if v.IsBug() {
		msg += "\n" + BugHint
	}
	return msg
}

func githubLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityError:
		return "error"
	case rules.SeverityInfo, rules.SeverityStyle:
		return "notice"
	default:
		return "warning"
	}
}

// Workflow command escaping, from actions/toolkit command.ts: the message
// escapes %, CR and LF; properties also escape ':' and ','.
var (
	messageEscaper  = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	propertyEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A", ":", "%3A", ",", "%2C")
)
