package processor

import (
	"path/filepath"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

// Deduplication keeps the first of violations that share a file and a
// rules.Key.
type Deduplication struct{}

// NewDeduplication creates a deduplication processor.
func NewDeduplication() *Deduplication { return &Deduplication{} }

// Name returns the processor's identifier.
func (*Deduplication) Name() string { return "deduplication" }

// Process drops repeated violations. File paths compare with forward
// slashes, so the same file reached through different separators counts
// once.
func (*Deduplication) Process(violations []rules.Violation, _ *Context) []rules.Violation {
	type seenKey struct {
		file string
		rules.Key
	}
	seen := make(map[seenKey]struct{}, len(violations))
	return filterViolations(violations, func(v rules.Violation) bool {
		k := seenKey{filepath.ToSlash(v.Location.File), v.Key()}
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}
