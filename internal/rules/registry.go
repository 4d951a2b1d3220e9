package rules

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrDuplicateRule is returned when two registered rules share a code or a name.
var ErrDuplicateRule = errors.New("duplicate rule")

// Constructor creates a fresh rule instance. Rules are instantiated per file
// so that per-file state never leaks between files or workers.
type Constructor func() Rule

// Registry manages rule registration and selection.
type Registry struct {
	mu    sync.RWMutex
	ctors []Constructor
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a rule constructor to the registry. Duplicates are detected
// when rules are instantiated, see All.
func (r *Registry) Register(ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors = append(r.ctors, ctor)
}

// All returns fresh instances of every registered rule sorted by code.
// Duplicate codes or names return ErrDuplicateRule.
func (r *Registry) All() ([]Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Rule, 0, len(r.ctors))
	codes := make(map[string]struct{}, len(r.ctors))
	names := make(map[string]struct{}, len(r.ctors))
	for _, ctor := range r.ctors {
		rule := ctor()
		meta := rule.Metadata()
		if _, exists := codes[meta.Code]; exists {
			return nil, fmt.Errorf("%w: code %q registered twice", ErrDuplicateRule, meta.Code)
		}
		if _, exists := names[meta.Name]; exists {
			return nil, fmt.Errorf("%w: name %q registered twice", ErrDuplicateRule, meta.Name)
		}
		codes[meta.Code] = struct{}{}
		names[meta.Name] = struct{}{}
		result = append(result, rule)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Metadata().Code < result[j].Metadata().Code
	})
	return result, nil
}

// Select returns fresh instances of the rules kept by the select and ignore
// glob lists, sorted by code.
//
// A rule is kept when selects is empty or any select glob matches its code,
// and no ignore glob matches it. Globs are shell-style and match any prefix
// of the code, so "GN", "GN*" and "GN00?" all match "GN001". A glob equal to
// a rule name matches that rule too.
func (r *Registry) Select(selects, ignores []string) ([]Rule, error) {
	all, err := r.All()
	if err != nil {
		return nil, err
	}

	result := all[:0]
	for _, rule := range all {
		meta := rule.Metadata()
		if len(selects) > 0 && !matchesAny(selects, meta) {
			continue
		}
		if matchesAny(ignores, meta) {
			continue
		}
		result = append(result, rule)
	}
	return result, nil
}

// Get returns a fresh instance of the rule with the given code, or nil.
func (r *Registry) Get(code string) Rule {
	all, err := r.All()
	if err != nil {
		return nil
	}
	for _, rule := range all {
		if strings.EqualFold(rule.Metadata().Code, code) {
			return rule
		}
	}
	return nil
}

// Has returns true if a rule with the given code is registered.
func (r *Registry) Has(code string) bool {
	return r.Get(code) != nil
}

// Metadata returns the metadata of every registered rule sorted by code.
func (r *Registry) Metadata() []RuleMetadata {
	all, err := r.All()
	if err != nil {
		return nil
	}
	out := make([]RuleMetadata, 0, len(all))
	for _, rule := range all {
		out = append(out, rule.Metadata())
	}
	return out
}

// ByCategory returns rule metadata grouped by category.
func (r *Registry) ByCategory() map[string][]RuleMetadata {
	out := make(map[string][]RuleMetadata)
	for _, meta := range r.Metadata() {
		out[meta.Category] = append(out[meta.Category], meta)
	}
	return out
}

// MatchesCode reports whether a select/ignore glob matches a rule code.
func MatchesCode(pattern, code string) bool {
	pattern = strings.ToUpper(strings.TrimSpace(pattern))
	code = strings.ToUpper(code)
	if pattern == "" {
		return false
	}
	for i := 1; i <= len(code); i++ {
		if ok, err := doublestar.Match(pattern, code[:i]); err == nil && ok {
			return true
		}
	}
	return false
}

func matchesAny(patterns []string, meta RuleMetadata) bool {
	for _, p := range patterns {
		if MatchesCode(p, meta.Code) || strings.EqualFold(strings.TrimSpace(p), meta.Name) {
			return true
		}
	}
	return false
}

// defaultRegistry is the global registry used by rule packages.
var defaultRegistry = NewRegistry()

// Register adds a rule constructor to the default registry.
func Register(ctor Constructor) {
	defaultRegistry.Register(ctor)
}

// DefaultRegistry returns the global registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// All returns fresh instances of all rules from the default registry.
func All() ([]Rule, error) {
	return defaultRegistry.All()
}

// Get returns a rule by code from the default registry.
func Get(code string) Rule {
	return defaultRegistry.Get(code)
}

// Has checks if a rule exists in the default registry.
func Has(code string) bool {
	return defaultRegistry.Has(code)
}
