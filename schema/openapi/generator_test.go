package openapi

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	lokalize "github.com/goliatone/go-lokalize"
)

func sampleTree(t *testing.T) *lokalize.Tree {
	t.Helper()
	tree := lokalize.NewTree("app")
	tree.Insert(lokalize.Locale{}, lokalize.NewStoreFromSnapshot(map[string]string{
		"greeting":         "Hello {0}",
		"greeting.comment": "shown on start",
		"title":            "Editor",
	}))
	if err := tree.SetMaster(tree.Root()); err != nil {
		t.Fatalf("set master: %v", err)
	}
	tree.Insert(lokalize.Locale{Language: "de"}, lokalize.NewStoreFromSnapshot(map[string]string{
		"greeting": "Hallo {0}",
	}))
	return tree
}

func TestGenerateDescribesEveryLocale(t *testing.T) {
	doc, err := Generate(sampleTree(t), WithInfo("App", "2.0.0", WithInfoDescription("bundles")))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	info := doc["info"].(map[string]any)
	if info["title"] != "App" || info["version"] != "2.0.0" || info["description"] != "bundles" {
		t.Fatalf("unexpected info %#v", info)
	}

	schemas := doc["components"].(map[string]any)["schemas"].(map[string]any)
	if len(schemas) != 2 {
		t.Fatalf("expected two schemas, got %v", reflect.ValueOf(schemas).MapKeys())
	}
	de := schemas["app_de"].(map[string]any)
	if de["x-inherits"] != "app" || de["x-locale"] != "de" {
		t.Fatalf("unexpected locale markers %#v", de)
	}
	props := de["properties"].(map[string]any)
	greeting := props["greeting"].(map[string]any)
	if greeting["default"] != "Hallo {0}" {
		t.Fatalf("expected local text as default, got %#v", greeting)
	}
	if greeting["description"] != "shown on start" {
		t.Fatalf("expected inherited comment, got %#v", greeting)
	}
	if !reflect.DeepEqual(greeting["x-placeholders"], []string{"{0}"}) {
		t.Fatalf("unexpected placeholders %#v", greeting["x-placeholders"])
	}
	if title := props["title"].(map[string]any); title["default"] != "Editor" {
		t.Fatalf("expected inherited title, got %#v", title)
	}
	if _, ok := props["greeting.comment"]; ok {
		t.Fatalf("comment keys must not become properties")
	}

	if _, err := json.Marshal(doc); err != nil {
		t.Fatalf("document must serialise: %v", err)
	}
}

func TestGenerateOperationListsLocaleCodes(t *testing.T) {
	doc, err := Generate(sampleTree(t), WithPath("/i18n/{locale}"), WithOpenAPIVersion("3.1.0"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if doc["openapi"] != "3.1.0" {
		t.Fatalf("unexpected version %v", doc["openapi"])
	}
	paths := doc["paths"].(map[string]any)
	get := paths["/i18n/{locale}"].(map[string]any)["get"].(map[string]any)
	param := get["parameters"].([]any)[0].(map[string]any)
	enum := param["schema"].(map[string]any)["enum"].([]any)
	if !reflect.DeepEqual(enum, []any{"app", "de"}) {
		t.Fatalf("unexpected locale enum %#v", enum)
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	if _, err := Generate(nil); err == nil {
		t.Fatalf("expected error for nil tree")
	}
	_, err := Generate(sampleTree(t), WithPath("/bundles"))
	if err == nil || !strings.Contains(err.Error(), "{locale}") {
		t.Fatalf("expected path error, got %v", err)
	}
	if err := validateDocument(map[string]any{"openapi": "3.0.3"}); err == nil {
		t.Fatalf("expected missing info error")
	}
}
