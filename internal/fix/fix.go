// Package fix provides auto-fix infrastructure for pgrubic.
//
// Rules never edit bytes. They mutate the parse tree through a Pass, which
// claims nodes, performs replacements and deletions, and defers conflicting
// fixes to the next pass. The engine then deparses fixed statements and
// splices the printed text back into the source.
package fix

import (
	"bytes"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// AppliedFix is a violation whose fix made it into the written file.
type AppliedFix struct {
	RuleCode          string
	Description       string
	Location          rules.Location
	StatementLocation int
}

// SkipReason says why a statement's fixes were thrown away.
type SkipReason string

const (
	SkipFixpoint SkipReason = "fixpoint not reached"
	SkipVerify   SkipReason = "fixed source does not parse"
	SkipFailed   SkipReason = "fix could not be applied"
	SkipComments SkipReason = "statement contains comments"
)

func (r SkipReason) String() string { return string(r) }

// SkippedFix is a fix that was computed and then discarded.
type SkippedFix struct {
	RuleCode string
	Reason   SkipReason
	Location rules.Location
	// Error is the verification error, if any.
	Error string
}

// FileChange is what fixing did to one file.
type FileChange struct {
	Path            string
	FixesApplied    []AppliedFix
	FixesSkipped    []SkippedFix
	OriginalContent []byte
	ModifiedContent []byte
}

// HasChanges reports whether fixes rewrote the file's bytes.
func (fc *FileChange) HasChanges() bool {
	return len(fc.FixesApplied) > 0 && !bytes.Equal(fc.OriginalContent, fc.ModifiedContent)
}

// Summary tallies the file changes of a run.
type Summary struct {
	Applied  int
	Modified int
	Skipped  []SkippedFix
}

// Add counts fc. A nil change, as returned when fixing is off, is ignored.
func (s *Summary) Add(fc *FileChange) {
	if fc == nil {
		return
	}
	s.Applied += len(fc.FixesApplied)
	s.Skipped = append(s.Skipped, fc.FixesSkipped...)
	if fc.HasChanges() {
		s.Modified++
	}
}
