// Package naming implements identifier naming rules: configurable name
// patterns for indexes, constraints, sequences and partitions, snake case,
// and keywords used as identifiers.
package naming

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/bolajiwahab/pgrubic-sub001/internal/rules"
)

const docBase = "https://github.com/bolajiwahab/pgrubic/blob/main/docs/rules/naming/"

var (
	patternsMu sync.Mutex
	patterns   = map[string]*regexp.Regexp{}
)

// compiled returns the compiled form of a configured pattern. Patterns are
// validated at config load; one that still fails to compile matches
// everything.
func compiled(pattern string) *regexp.Regexp {
	patternsMu.Lock()
	defer patternsMu.Unlock()
	if re, ok := patterns[pattern]; ok {
		return re
	}
	re, _ := regexp.Compile(pattern)
	patterns[pattern] = re
	return re
}

// checkName reports name when it does not match pattern.
func checkName(ctx *rules.Context, what, name, pattern string) {
	if name == "" || pattern == "" {
		return
	}
	re := compiled(pattern)
	if re == nil || re.MatchString(name) {
		return
	}
	ctx.Reportf(fmt.Sprintf("%s `%s` does not match regex `%s`", what, name, pattern))
}
