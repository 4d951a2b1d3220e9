// Package rules provides the core rule system: rule metadata, the rule
// registry, violations and the per-visit context handed to rule handlers.
package rules

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity ranks a violation. Lower values are more severe; the zero
// value is SeverityError.
//
//nolint:recvcheck // UnmarshalJSON needs a pointer receiver
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityStyle

	// SeverityOff disables a rule. It sorts after every real level.
	SeverityOff
)

var severityNames = [...]string{
	SeverityError:   "error",
	SeverityWarning: "warning",
	SeverityInfo:    "info",
	SeverityStyle:   "style",
	SeverityOff:     "off",
}

var severitySigils = [...]string{
	SeverityError:   "E",
	SeverityWarning: "W",
	SeverityInfo:    "I",
	SeverityStyle:   "S",
}

func (s Severity) valid() bool {
	return s >= SeverityError && s <= SeverityOff
}

func (s Severity) String() string {
	if !s.valid() {
		return "unknown"
	}
	return severityNames[s]
}

// ParseSeverity parses a severity name, ignoring case. "warn" is accepted
// for warning.
func ParseSeverity(name string) (Severity, error) {
	name = strings.ToLower(name)
	if name == "warn" {
		return SeverityWarning, nil
	}
	for s, n := range severityNames {
		if n == name {
			return Severity(s), nil
		}
	}
	return SeverityError, fmt.Errorf("unknown severity: %q", name)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("severity must be a string: %w", err)
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsAtLeast reports whether s is as severe as threshold or more.
func (s Severity) IsAtLeast(threshold Severity) bool {
	return s <= threshold
}

// Sigil is the one-letter marker printed in front of a diagnostic.
func (s Severity) Sigil() string {
	if s < SeverityError || s >= SeverityOff {
		return "-"
	}
	return severitySigils[s]
}
