package platecore

import (
	"sort"
	"sync"
)

// Registry maps jurisdiction codes to their plate rule. Registering a code
// that already exists replaces the previous rule.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]PlateRule
}

// NewRegistry copies initial into a new registry. A nil map loads
// DefaultRules; an empty non-nil map yields an empty registry.
func NewRegistry(initial map[string]PlateRule) *Registry {
	if initial == nil {
		initial = DefaultRules()
	}
	rules := make(map[string]PlateRule, len(initial))
	for code, rule := range initial {
		rules[code] = rule
	}
	return &Registry{rules: rules}
}

// GetRule is an exact-match lookup. The bool is false for unknown codes.
func (r *Registry) GetRule(code string) (PlateRule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[code]
	return rule, ok
}

// RegisterRule ignores nil rules, including a nil *Rule.
func (r *Registry) RegisterRule(rule PlateRule) {
	if rule == nil {
		return
	}
	if typed, ok := rule.(*Rule); ok && typed == nil {
		return
	}
	r.mu.Lock()
	r.rules[rule.JurisdictionCode()] = rule
	r.mu.Unlock()
}

// ListStates returns the registered codes in ascending order.
func (r *Registry) ListStates() []string {
	r.mu.RLock()
	codes := make([]string, 0, len(r.rules))
	for code := range r.rules {
		codes = append(codes, code)
	}
	r.mu.RUnlock()
	sort.Strings(codes)
	return codes
}

// Detect returns, sorted, the codes whose rule accepts raw.
func (r *Registry) Detect(raw string) []string {
	r.mu.RLock()
	matches := []string{}
	for code, rule := range r.rules {
		if rule.Validate(raw).IsValid {
			matches = append(matches, code)
		}
	}
	r.mu.RUnlock()
	sort.Strings(matches)
	return matches
}
