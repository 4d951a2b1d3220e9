// Package sourcemap converts between byte offsets into SQL source and
// the line and column pairs shown in diagnostics.
//
// Line indices taken by Line, LineOffset and Snippet are 0-based.
// Position and Offset use 1-based lines and 0-based byte columns.
package sourcemap

import (
	"bytes"
	"slices"
	"strings"
)

// SourceMap indexes the line starts of a source.
type SourceMap struct {
	source []byte
	starts []int
}

// New indexes source. Lines end at \n; a trailing \r is not part of a
// line's text.
func New(source []byte) *SourceMap {
	starts := make([]int, 1, bytes.Count(source, []byte{'\n'})+1)
	for i, c := range source {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceMap{source: source, starts: starts}
}

// LineCount returns the number of lines. Text ending in a newline has an
// empty last line.
func (sm *SourceMap) LineCount() int {
	return len(sm.starts)
}

// Line returns the text of line i, or "" when out of range.
func (sm *SourceMap) Line(i int) string {
	if i < 0 || i >= len(sm.starts) {
		return ""
	}
	end := len(sm.source)
	if i+1 < len(sm.starts) {
		end = sm.starts[i+1] - 1
	}
	return strings.TrimSuffix(string(sm.source[sm.starts[i]:end]), "\r")
}

// LineOffset returns the offset at which line i starts, or -1.
func (sm *SourceMap) LineOffset(i int) int {
	if i < 0 || i >= len(sm.starts) {
		return -1
	}
	return sm.starts[i]
}

// LineIndex returns the 0-based line holding offset. Offsets outside
// the source are clamped.
func (sm *SourceMap) LineIndex(offset int) int {
	offset = min(max(offset, 0), len(sm.source))
	i, found := slices.BinarySearch(sm.starts, offset)
	if found {
		return i
	}
	return i - 1
}

// Position converts an offset to a line and column.
func (sm *SourceMap) Position(offset int) (line, column int) {
	offset = min(max(offset, 0), len(sm.source))
	i := sm.LineIndex(offset)
	return i + 1, offset - sm.starts[i]
}

// Offset is the inverse of Position. It returns -1 for a line that does
// not exist.
func (sm *SourceMap) Offset(line, column int) int {
	start := sm.LineOffset(line - 1)
	if start < 0 {
		return -1
	}
	return start + column
}

// SameLine reports whether two offsets are on one physical line.
func (sm *SourceMap) SameLine(a, b int) bool {
	return sm.LineIndex(a) == sm.LineIndex(b)
}

// Snippet joins lines first through last, inclusive, clamped to the
// source. An empty range yields "".
func (sm *SourceMap) Snippet(first, last int) string {
	first = max(first, 0)
	last = min(last, len(sm.starts)-1)
	if first > last {
		return ""
	}
	lines := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		lines = append(lines, sm.Line(i))
	}
	return strings.Join(lines, "\n")
}
