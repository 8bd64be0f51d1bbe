package analyzer

import (
	"fmt"
	"sort"
	"sync"

	"chamber/internal/ast"
	"chamber/internal/diag"
)

// Registry holds the known rules in registration order.
type Registry struct {
	mu     sync.Mutex
	rules  []Rule
	byName map[string]int // name -> index into rules
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]int)}
}

// Add registers a rule. Names are unique.
func (r *Registry) Add(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rule.Name == "" || rule.Check == nil {
		return fmt.Errorf("analyzer: rule %q is incomplete", rule.Name)
	}
	if _, dup := r.byName[rule.Name]; dup {
		return fmt.Errorf("analyzer: rule %q already registered", rule.Name)
	}
	r.byName[rule.Name] = len(r.rules)
	r.rules = append(r.rules, rule)
	return nil
}

// Lookup returns the rule registered under name.
func (r *Registry) Lookup(name string) (Rule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.byName[name]
	if !ok {
		return Rule{}, false
	}
	return r.rules[idx], true
}

// All returns every registered rule.
func (r *Registry) All() []Rule {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Rule(nil), r.rules...)
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rules)
}

// Select returns the rules cfg turns on, in registration order.
func (r *Registry) Select(cfg Config) []Rule {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Rule
	for _, rule := range r.rules {
		on := rule.Default
		if contains(cfg.Enable, rule.Name) {
			on = true
		}
		if contains(cfg.Disable, rule.Name) {
			on = false
		}
		if on {
			out = append(out, rule)
		}
	}
	return out
}

// Validate reports rule names in cfg that are not registered.
func (r *Registry) Validate(cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var unknown []string
	for _, name := range append(append([]string(nil), cfg.Disable...), cfg.Enable...) {
		if _, ok := r.byName[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("analyzer: unknown rules %q", unknown)
}

// Analyze runs the selected rules and returns their findings ordered by range.
func (r *Registry) Analyze(tune *ast.Tune, cfg Config) []diag.Diagnostic {
	if tune == nil {
		return nil
	}
	bag := diag.NewBag(0)
	for _, rule := range r.Select(cfg) {
		rule.Check(tune, cfg, bag)
	}
	bag.Sort()
	return bag.Items()
}

var builtin = func() *Registry {
	r := NewRegistry()
	for _, rule := range []Rule{
		unknownDecorationRule,
		barLengthRule,
		unusualOctaveRule,
		suspiciousDurationRule,
	} {
		if err := r.Add(rule); err != nil {
			panic(err)
		}
	}
	return r
}()

// Builtin returns the registry with the standard rules.
func Builtin() *Registry { return builtin }

// Analyze runs the standard rules selected by cfg.
func Analyze(tune *ast.Tune, cfg Config) []diag.Diagnostic {
	return builtin.Analyze(tune, cfg)
}
