// Package unsafe implements rules about migrations that lock tables for
// long periods or destroy data.
package unsafe

const docBase = "https://github.com/bolajiwahab/pgrubic/blob/main/docs/rules/unsafe/"
