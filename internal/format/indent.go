package format

import (
	"path/filepath"
	"strconv"

	"github.com/editorconfig/editorconfig-core-go/v2"
)

// IndentFor resolves the indent width for path: the configured width when
// set, else indent_size (or tab_width for tab indents) from .editorconfig,
// else DefaultIndent.
func IndentFor(path string, configured int) int {
	if configured > 0 {
		return configured
	}
	if path == "" || path == "-" {
		return DefaultIndent
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return DefaultIndent
	}
	def, err := editorconfig.GetDefinitionForFilename(abs)
	if err != nil || def == nil {
		return DefaultIndent
	}
	if n, err := strconv.Atoi(def.IndentSize); err == nil && n > 0 {
		return n
	}
	if def.TabWidth > 0 {
		return def.TabWidth
	}
	return DefaultIndent
}
