package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/goliatone/go-lokalize/internal/bundle"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format   string
		nested   bool
		resolved bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "export <resource>",
		Short: "Export the texts of a locale as JSON or YAML",
		Long: `The export command writes the texts of the selected locale as a JSON
or YAML bundle. With --resolved inherited texts are filled in, with
--nested dotted keys become nested objects.

Example:
  lokalize export i18n/app -l de --format yaml --nested
  lokalize export i18n/app -l de_AT --resolved --output de_AT.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, view, err := a.view(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id := view.Selected()
			var texts map[string]string
			if resolved {
				texts = p.Tree().Resolved(id)
			} else {
				store, _ := p.Tree().Store(id)
				texts = map[string]string{}
				for key, value := range store.Snapshot() {
					if !lokalize.IsCommentKey(key) {
						texts[key] = value
					}
				}
			}

			var payload any = texts
			if nested {
				tree, err := bundle.Nest(texts)
				if err != nil {
					return err
				}
				payload = tree
			}

			w := a.out
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := encodeBundle(w, format, payload); err != nil {
				return err
			}
			if output != "" {
				a.say("Exported", map[string]any{"Count": len(texts), "Locale": label(p, id)})
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "Output format (json, yaml)")
	cmd.Flags().BoolVar(&nested, "nested", false, "Nest dotted keys")
	cmd.Flags().BoolVar(&resolved, "resolved", false, "Include inherited texts")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func encodeBundle(w io.Writer, format string, payload any) error {
	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(payload); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

func newImportCmd(a *app) *cobra.Command {
	var stripPrefix string
	cmd := &cobra.Command{
		Use:   "import <resource> <bundle>",
		Short: "Import a JSON or YAML bundle into a locale",
		Long: `The import command reads a JSON or YAML bundle, flattens nested objects
into dotted keys and writes every text into the selected locale.

Example:
  lokalize import i18n/app de.json -l de
  lokalize import i18n/app config/locales/de.yml -l de --strip-prefix de`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, view, err := a.view(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			source := args[1]
			texts, err := decodeBundle(source, label(p, view.Selected()), stripPrefix)
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(texts))
			for key := range texts {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			count := 0
			for _, key := range keys {
				if view.SetText(key, texts[key]) {
					count++
				}
			}
			if count > 0 {
				if err := p.Save(cmd.Context()); err != nil {
					return err
				}
			}
			a.say("Imported", map[string]any{"Count": count, "Locale": label(p, view.Selected())})
			return nil
		},
	}
	cmd.Flags().StringVar(&stripPrefix, "strip-prefix", "", "Unwrap the object stored under this top level key")
	return cmd
}

func decodeBundle(path, locale, stripPrefix string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	opts := []bundle.DecoderOption{bundle.WithPostHook(bundle.RejectCommentKeys(lokalize.CommentSuffix))}
	if stripPrefix != "" {
		opts = append(opts, bundle.WithPreHook(bundle.StripPrefix(stripPrefix)))
	}
	decoder := bundle.NewDecoder(opts...)
	ctx := bundle.Context{Source: path, Locale: locale}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return decoder.DecodeJSON(ctx, f)
	case ".yaml", ".yml":
		return decoder.DecodeYAML(ctx, f)
	default:
		return nil, fmt.Errorf("unsupported bundle %s: expected .json, .yaml or .yml", path)
	}
}
