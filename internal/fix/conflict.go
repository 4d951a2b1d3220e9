package fix

// editsOverlap checks if two edits overlap in their byte ranges.
// Overlapping edits cannot both be applied safely.
func editsOverlap(a, b Edit) bool {
	// Edit A: [a.Start, a.End)
	// Edit B: [b.Start, b.End)
	// They overlap if neither is completely before the other
	if a.End <= b.Start {
		return false
	}
	if b.End <= a.Start {
		return false
	}
	return true
}

// compareEdits returns true if edit a comes before edit b in the file.
func compareEdits(a, b Edit) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.End < b.End
}
