package main

import (
	"github.com/goliatone/go-lokalize/schema/openapi"
	"github.com/spf13/cobra"
)

func newSchemaCmd(a *app) *cobra.Command {
	var (
		title   string
		version string
		path    string
	)
	cmd := &cobra.Command{
		Use:   "schema <resource>",
		Short: "Describe the locale bundles as an OpenAPI document",
		Long: `The schema command prints an OpenAPI document with one schema per
locale. Each schema lists the resolved keys of the locale with the
effective text as default and the comment as description.

Example:
  lokalize schema i18n/app --title "App texts" --path "/i18n/{locale}"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if title == "" {
				title = p.Base()
			}
			doc, err := openapi.Generate(p.Tree(),
				openapi.WithInfo(title, version),
				openapi.WithPath(path),
			)
			if err != nil {
				return err
			}
			return a.printJSON(doc)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Document title, the base name when empty")
	cmd.Flags().StringVar(&version, "version", "", "Document version")
	cmd.Flags().StringVar(&path, "path", "", "Path serving one bundle, must contain {locale}")
	return cmd
}
