package fix

import (
	"fmt"
	"sort"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Edit replaces the source range [Start, End) with Text.
type Edit struct {
	Start int
	End   int
	Text  string
}

// Deparse prints a single statement tree back to SQL, without the
// terminating semicolon.
func Deparse(stmt *pg_query.Node, version int32) (string, error) {
	out, err := pg_query.Deparse(&pg_query.ParseResult{
		Version: version,
		Stmts:   []*pg_query.RawStmt{{Stmt: stmt}},
	})
	if err != nil {
		return "", fmt.Errorf("deparse: %w", err)
	}
	return strings.TrimRight(strings.TrimSpace(out), ";"), nil
}

// Splice applies non-overlapping edits to source. Edits are applied from the
// end of the file backwards so earlier offsets stay valid.
func Splice(source string, edits []Edit) (string, error) {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareEdits(sorted[i], sorted[j])
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End > len(source) || e.Start > e.End {
			return "", fmt.Errorf("edit [%d,%d) outside source of %d bytes", e.Start, e.End, len(source))
		}
		if i > 0 && editsOverlap(sorted[i-1], e) {
			return "", fmt.Errorf("edits [%d,%d) and [%d,%d) overlap",
				sorted[i-1].Start, sorted[i-1].End, e.Start, e.End)
		}
	}

	out := source
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		out = out[:e.Start] + e.Text + out[e.End:]
	}
	return out, nil
}

// Verify checks that fixed source still parses.
func Verify(source string) error {
	if _, err := pg_query.Parse(source); err != nil {
		return fmt.Errorf("fixed source does not parse: %w", err)
	}
	return nil
}
