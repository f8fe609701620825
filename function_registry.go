package lokalize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Function represents a callable registered against evaluators.
type Function func(args ...any) (any, error)

type registeredFunction struct {
	name string
	fn   Function
}

// FunctionRegistry stores custom functions keyed by case-insensitive name.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]registeredFunction
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{
		functions: make(map[string]registeredFunction),
	}
}

// DefaultFunctions returns a registry holding the translation helpers:
// placeholders(text) lists the {n} placeholders of text and
// placeholdersMatch(a, b) reports whether both texts use the same ones.
func DefaultFunctions() *FunctionRegistry {
	registry := NewFunctionRegistry()
	_ = registry.Register("placeholders", placeholdersFunction)
	_ = registry.Register("placeholdersMatch", placeholdersMatchFunction)
	return registry
}

// Register stores fn under name guarding against duplicates.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	if fn == nil {
		return fmt.Errorf("lokalize: function %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("lokalize: function name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = make(map[string]registeredFunction)
	}
	key := strings.ToLower(name)
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("lokalize: function %q already registered", name)
	}
	r.functions[key] = registeredFunction{name: name, fn: fn}
	return nil
}

// Clone returns a shallow copy of the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := &FunctionRegistry{
		functions: make(map[string]registeredFunction, len(r.functions)),
	}
	for key, fn := range r.functions {
		clone.functions[key] = fn
	}
	return clone
}

// Call executes the function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("lokalize: function registry is nil")
	}
	r.mu.RLock()
	entry, ok := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("lokalize: function %q not registered", name)
	}
	return entry.fn(args...)
}

// Names returns registered function names, as registered, sorted
// alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.functions))
	for _, entry := range r.functions {
		names = append(names, entry.name)
	}
	sort.Strings(names)
	return names
}

var placeholderPattern = regexp.MustCompile(`\{[0-9]+[^{}]*\}`)

// Placeholders returns the distinct {n} style placeholders of text, sorted.
func Placeholders(text string) []string {
	matches := placeholderPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}
		out = append(out, match)
	}
	sort.Strings(out)
	return out
}

func placeholdersFunction(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("lokalize: placeholders expects 1 argument, got %d", len(args))
	}
	text, err := stringArgument("placeholders", args[0])
	if err != nil {
		return nil, err
	}
	found := Placeholders(text)
	out := make([]any, len(found))
	for i, p := range found {
		out[i] = p
	}
	return out, nil
}

func placeholdersMatchFunction(args ...any) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("lokalize: placeholdersMatch expects 2 arguments, got %d", len(args))
	}
	left, err := stringArgument("placeholdersMatch", args[0])
	if err != nil {
		return nil, err
	}
	right, err := stringArgument("placeholdersMatch", args[1])
	if err != nil {
		return nil, err
	}
	a, b := Placeholders(left), Placeholders(right)
	if len(a) != len(b) {
		return false, nil
	}
	for i := range a {
		if a[i] != b[i] {
			return false, nil
		}
	}
	return true, nil
}

func stringArgument(fn string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("lokalize: %s expects a string argument, got %T", fn, value)
	}
}
