// Package openapi describes the translation bundles of a locale tree as an
// OpenAPI document: one component schema per locale listing its resolved
// keys, plus a path serving a bundle per locale code.
package openapi

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	lokalize "github.com/goliatone/go-lokalize"
)

// Generate builds the document for every locale of tree.
func Generate(tree *lokalize.Tree, opts ...GeneratorOption) (map[string]any, error) {
	if tree == nil {
		return nil, fmt.Errorf("openapi: tree cannot be nil")
	}
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !strings.Contains(cfg.path, "{locale}") {
		return nil, fmt.Errorf("openapi: path %q must contain {locale}", cfg.path)
	}

	schemas := map[string]any{}
	var codes, refs []string
	for _, id := range tree.Nodes() {
		locale, _ := tree.Locale(id)
		name := componentName(locale)
		schemas[name] = localeSchema(tree, id)
		codes = append(codes, localeCode(locale))
		refs = append(refs, "#/components/schemas/"+name)
	}

	document := map[string]any{
		"openapi": cfg.openAPIVersion,
		"info":    buildInfo(cfg.info),
		"paths": map[string]any{
			cfg.path: map[string]any{
				"get": buildOperation(cfg, codes, refs),
			},
		},
		"components": map[string]any{
			"schemas": schemas,
		},
	}
	if err := validateDocument(document); err != nil {
		return nil, err
	}
	return document, nil
}

func buildInfo(info openapiInfo) map[string]any {
	out := map[string]any{
		"title":   info.Title,
		"version": info.Version,
	}
	if info.Description != "" {
		out["description"] = info.Description
	}
	return out
}

func buildOperation(cfg generatorConfig, codes, refs []string) map[string]any {
	oneOf := make([]any, 0, len(refs))
	for _, ref := range refs {
		oneOf = append(oneOf, map[string]any{"$ref": ref})
	}
	enum := make([]any, 0, len(codes))
	for _, code := range codes {
		enum = append(enum, code)
	}
	return map[string]any{
		"operationId": "get:" + cfg.path,
		"summary":     "Resolved texts of one locale",
		"parameters": []any{
			map[string]any{
				"name":     "locale",
				"in":       "path",
				"required": true,
				"schema":   map[string]any{"type": "string", "enum": enum},
			},
		},
		"responses": map[string]any{
			"200": map[string]any{
				"description": "OK",
				"content": map[string]any{
					cfg.contentType: map[string]any{
						"schema": map[string]any{"oneOf": oneOf},
					},
				},
			},
		},
	}
}

// localeSchema lists the resolved keys of id. Each property carries the
// effective text as default and the nearest comment as description, plus
// any placeholders a translation has to keep.
func localeSchema(tree *lokalize.Tree, id lokalize.NodeID) map[string]any {
	resolved := tree.Resolved(id)
	keys := make([]string, 0, len(resolved))
	for key := range resolved {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	properties := map[string]any{}
	required := make([]any, 0, len(keys))
	for _, key := range keys {
		property := map[string]any{
			"type":    "string",
			"default": resolved[key],
		}
		if comment := effectiveComment(tree.TraceKey(id, key)); comment != "" {
			property["description"] = comment
		}
		if placeholders := lokalize.Placeholders(resolved[key]); len(placeholders) > 0 {
			property["x-placeholders"] = placeholders
		}
		properties[key] = property
		required = append(required, key)
	}

	locale, _ := tree.Locale(id)
	schema := map[string]any{
		"type":                 "object",
		"title":                tree.DisplayName(id),
		"properties":           properties,
		"additionalProperties": false,
		"x-locale":             localeCode(locale),
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	if parent := tree.ResolveParent(id); parent != lokalize.NoNode {
		parentLocale, _ := tree.Locale(parent)
		schema["x-inherits"] = localeCode(parentLocale)
	}
	return schema
}

// effectiveComment returns the comment of the strongest layer defining one.
func effectiveComment(trace lokalize.Trace) string {
	for _, layer := range trace.Layers {
		if layer.Found && layer.Comment != "" {
			return layer.Comment
		}
	}
	return ""
}

func localeCode(locale lokalize.Locale) string {
	if code := locale.Code(); code != "" {
		return code
	}
	return locale.Base
}

var componentNameRegexp = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func componentName(locale lokalize.Locale) string {
	name := componentNameRegexp.ReplaceAllString(locale.FileName(), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "Locale"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

func validateDocument(document map[string]any) error {
	openapi, _ := document["openapi"].(string)
	if openapi == "" {
		return fmt.Errorf("openapi: document missing version string")
	}
	info, _ := document["info"].(map[string]any)
	if info == nil {
		return fmt.Errorf("openapi: document missing info section")
	}
	if title, _ := info["title"].(string); title == "" {
		return fmt.Errorf("openapi: info.title must be set")
	}
	if version, _ := info["version"].(string); version == "" {
		return fmt.Errorf("openapi: info.version must be set")
	}
	paths, _ := document["paths"].(map[string]any)
	if len(paths) == 0 {
		return fmt.Errorf("openapi: document must define at least one path")
	}
	for pathKey, pathValue := range paths {
		pathItem, _ := pathValue.(map[string]any)
		if len(pathItem) == 0 {
			return fmt.Errorf("openapi: path %q missing operations", pathKey)
		}
		for method, operationValue := range pathItem {
			operation, _ := operationValue.(map[string]any)
			if operation == nil {
				return fmt.Errorf("openapi: operation %s %s invalid payload", method, pathKey)
			}
			if _, ok := operation["operationId"].(string); !ok {
				return fmt.Errorf("openapi: operation %s %s missing operationId", method, pathKey)
			}
			if _, ok := operation["responses"].(map[string]any); !ok {
				return fmt.Errorf("openapi: operation %s %s missing responses", method, pathKey)
			}
		}
	}
	components, _ := document["components"].(map[string]any)
	if schemas, _ := components["schemas"].(map[string]any); len(schemas) == 0 {
		return fmt.Errorf("openapi: document must define at least one schema")
	}
	return nil
}
