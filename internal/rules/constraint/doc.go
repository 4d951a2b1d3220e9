// Package constraint implements rules about table constraints: referential
// actions and primary keys.
package constraint

const docBase = "https://github.com/bolajiwahab/pgrubic/blob/main/docs/rules/constraint/"

// Referential action codes used by the parser for ON DELETE / ON UPDATE.
const (
	actionCascade  = "c"
	actionRestrict = "r"
)
