package main

import (
	"fmt"

	"github.com/goliatone/go-lokalize/pkg/resource"
	"github.com/spf13/cobra"
)

func newNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new <resource>",
		Short: "Create a project with an empty base resource",
		Long: `The new command writes an empty base resource. Locales are added
with add-locale afterwards.

Example:
  lokalize new i18n/app
  lokalize new i18n/messages.properties`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.resourcePath(args[0])
			dir, base, _ := resource.SplitFileName(path)
			p := a.newProject(path)
			if err := p.CreateNew(dir, base); err != nil {
				return err
			}
			ref, _ := p.Ref(p.Tree().Root())
			exists, err := a.store.Exists(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("resource already exists: %s (refusing to overwrite)", ref.Path())
			}
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			a.say("ProjectCreated", map[string]any{"Base": base, "Dir": dir})
			return nil
		},
	}
}
