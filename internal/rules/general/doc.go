// Package general implements the GN rules: statement-level practices that
// are not specific to constraints, types, naming or migration safety.
package general

const docBase = "https://github.com/bolajiwahab/pgrubic/blob/main/docs/rules/general/"
