package rules

import "github.com/bolajiwahab/pgrubic-sub001/internal/sourcemap"

// Position represents a single point in a source file.
type Position struct {
	// Line is the 1-based line number.
	Line int `json:"line"`
	// Column is the 0-based byte column.
	Column int `json:"column"`
}

// Location represents a point or range in a source file.
// Start is inclusive and End is exclusive; a point location has End.Line < 0.
type Location struct {
	// File is the path to the source file.
	File string `json:"file"`
	// Start is the starting position.
	Start Position `json:"start"`
	// End is the ending position (exclusive), or -1/-1 for a point.
	End Position `json:"end"`
}

// NewFileLocation creates a location for file-level issues (no specific line).
// Uses -1 as sentinel since 0 would be invalid (lines are 1-based).
func NewFileLocation(file string) Location {
	return Location{
		File:  file,
		Start: Position{Line: -1, Column: -1},
		End:   Position{Line: -1, Column: -1},
	}
}

// NewPointLocation creates a point location at a 1-based line and 0-based column.
func NewPointLocation(file string, line, column int) Location {
	return Location{
		File:  file,
		Start: Position{Line: line, Column: column},
		End:   Position{Line: -1, Column: -1},
	}
}

// NewOffsetLocation creates a point location for a byte offset in the
// source described by sm.
func NewOffsetLocation(file string, sm *sourcemap.SourceMap, offset int) Location {
	line, col := sm.Position(offset)
	return NewPointLocation(file, line, col)
}

// NewRangeLocation creates a location spanning multiple lines/columns.
// Lines are 1-based, columns are 0-based.
func NewRangeLocation(file string, startLine, startCol, endLine, endCol int) Location {
	return Location{
		File:  file,
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	}
}

// IsFileLevel returns true if this is a file-level location (no specific line).
func (l Location) IsFileLevel() bool {
	return l.Start.Line < 0
}

// IsPointLocation returns true if this is a single-point location (no range).
func (l Location) IsPointLocation() bool {
	return l.End.Line < 0 || (l.End.Line == l.Start.Line && l.End.Column == l.Start.Column)
}
