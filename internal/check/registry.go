package check

import (
	"sort"
	"sync"

	"github.com/leapstack-labs/leapreq/pkg/core"
)

// globalRegistry is the single global registry for validation rules.
var globalRegistry = &Registry{
	rules: make(map[string]RuleDef),
}

// Registry stores registered validation rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]RuleDef // keyed by ID
}

// RuleDef is a validation rule definition. Exactly one of CheckItem and
// CheckTree is set: item rules run once per item, tree rules once per
// pass.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "RF01"
	Name        string        // Human-readable name, e.g., "broken-keyword-ref"
	Group       string        // Category: "reference", "link", "item", "document"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	CheckItem   ItemCheck     // The check function for item rules
	CheckTree   TreeCheck     // The check function for tree rules
}

// ItemCheck is the function signature for item-level rule checks.
type ItemCheck func(ctx *ItemContext) []Diagnostic

// TreeCheck is the function signature for tree-level rule checks.
type TreeCheck func(ctx *TreeContext) []Diagnostic

// Kind returns "item" or "tree" depending on which check the rule carries.
func (r RuleDef) Kind() string {
	if r.CheckTree != nil {
		return "tree"
	}
	return "item"
}

// Info extracts metadata from a rule for documentation/tooling.
func (r RuleDef) Info() core.RuleInfo {
	return core.RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity,
		Type:            r.Kind(),
	}
}

// Register adds a rule to the global registry.
// Call this from init() functions in rule packages.
func Register(rule RuleDef) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[rule.ID] = rule
}

// GetAll returns all registered rules, sorted by ID so every pass runs
// them in the same order.
func GetAll() []RuleDef {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]RuleDef, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// GetByID returns a rule by its ID.
func GetByID(id string) (RuleDef, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[id]
	return rule, ok
}

// GetByGroup returns all rules in a specific group, sorted by ID.
func GetByGroup(group string) []RuleDef {
	var rules []RuleDef
	for _, rule := range GetAll() {
		if rule.Group == group {
			rules = append(rules, rule)
		}
	}
	return rules
}

// Groups returns the distinct rule groups, sorted.
func Groups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, rule := range GetAll() {
		if !seen[rule.Group] {
			seen[rule.Group] = true
			groups = append(groups, rule.Group)
		}
	}
	sort.Strings(groups)
	return groups
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]RuleDef)
}
