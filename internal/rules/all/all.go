// Package all imports all rule packages to register them.
// Import this package with a blank identifier to enable all rules:
//
//	import _ "github.com/bolajiwahab/pgrubic-sub001/internal/rules/all"
package all

import (
	// Import all rule packages to trigger their init() registration
	_ "github.com/bolajiwahab/pgrubic-sub001/internal/rules/constraint"
	_ "github.com/bolajiwahab/pgrubic-sub001/internal/rules/general"
	_ "github.com/bolajiwahab/pgrubic-sub001/internal/rules/naming"
	_ "github.com/bolajiwahab/pgrubic-sub001/internal/rules/schema"
	_ "github.com/bolajiwahab/pgrubic-sub001/internal/rules/typing"
	_ "github.com/bolajiwahab/pgrubic-sub001/internal/rules/unsafe"
)
