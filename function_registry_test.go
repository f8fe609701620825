package lokalize

import (
	"reflect"
	"testing"
)

func TestFunctionRegistry(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("Upper", func(args ...any) (any, error) { return "UP", nil }); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register("upper", func(args ...any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected case-insensitive duplicate to fail")
	}
	if err := registry.Register("nil", nil); err == nil {
		t.Fatalf("expected nil function to fail")
	}
	if got, err := registry.Call("UPPER"); err != nil || got != "UP" {
		t.Fatalf("unexpected call result %v %v", got, err)
	}
	if _, err := registry.Call("missing"); err == nil {
		t.Fatalf("expected missing function error")
	}
	clone := registry.Clone()
	_ = clone.Register("extra", func(args ...any) (any, error) { return nil, nil })
	if !reflect.DeepEqual(registry.Names(), []string{"Upper"}) {
		t.Fatalf("clone must not affect original, got %v", registry.Names())
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders("{1} of {0}, {0} and {2,number}"); !reflect.DeepEqual(got, []string{"{0}", "{1}", "{2,number}"}) {
		t.Fatalf("unexpected placeholders %v", got)
	}
	if got := Placeholders("plain {name}"); len(got) != 0 {
		t.Fatalf("named braces are not placeholders, got %v", got)
	}
	registry := DefaultFunctions()
	match, err := registry.Call("placeholdersMatch", "Hallo {0}", "Hello {0}")
	if err != nil || match != true {
		t.Fatalf("expected match, got %v %v", match, err)
	}
	match, _ = registry.Call("placeholdersMatch", "Tschüss", "Bye {0}")
	if match != false {
		t.Fatalf("expected mismatch")
	}
	if _, err := registry.Call("placeholders", 42); err == nil {
		t.Fatalf("expected type error")
	}
}
