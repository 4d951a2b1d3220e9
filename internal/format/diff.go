package format

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff turning before into after, or "" when they
// are equal.
func Diff(path, before, after string) (string, error) {
	if before == after {
		return "", nil
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path + " (formatted)",
		Context:  3,
	})
}
