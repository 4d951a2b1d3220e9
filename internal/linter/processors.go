package linter

import (
	"github.com/bolajiwahab/pgrubic-sub001/internal/directive"
	"github.com/bolajiwahab/pgrubic-sub001/internal/processor"
	"github.com/bolajiwahab/pgrubic-sub001/internal/sourcemap"
)

// fileProcessors returns the chain run over one file's engine output.
// Suppression marks the directives used in place, so the caller's slice
// reflects which ones matched.
func fileProcessors(path string, directives []directive.Directive, sm *sourcemap.SourceMap) *processor.Chain {
	return processor.NewChain(
		processor.NewSuppression(path, directives, sm), // Apply noqa directives, report unused ones
		processor.NewDeduplication(),                   // Collapse repeats across statements
	)
}
