package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/spf13/cobra"
)

func newAddLocaleCmd(a *app) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "add-locale <resource> <code>",
		Short: "Add an empty locale to the project",
		Long: `The add-locale command creates the resource of a new locale, e.g. de,
de_AT or de_AT_vienna. Missing intermediate locales are created as well.

Example:
  lokalize add-locale i18n/app fr
  lokalize add-locale i18n/app de_CH --overwrite`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			codes, err := lokalize.ParseLocaleCode(args[1])
			if err != nil {
				return err
			}
			if len(codes) == 0 {
				return fmt.Errorf("%w: a language code is required", lokalize.ErrInvalidLocaleCode)
			}
			p, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := p.AddLocale(codes, overwrite)
			if err != nil {
				return err
			}
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			a.say("LocaleAdded", map[string]any{"Locale": label(p, id)})
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing locale with an empty one")
	return cmd
}

func newRemoveLocaleCmd(a *app) *cobra.Command {
	var deleteFile bool
	cmd := &cobra.Command{
		Use:   "remove-locale <resource> <code>",
		Short: "Remove a locale from the project",
		Long: `The remove-locale command detaches a locale without sub-locales. Any
other locale, the base resource included, keeps its place and loses all of
its keys instead.

A detached locale keeps its file unless --delete-file is given; it is found
again the next time the project is opened.

Example:
  lokalize remove-locale i18n/app de_AT --delete-file
  lokalize remove-locale i18n/app de`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			id, err := a.node(p, args[1])
			if err != nil {
				return err
			}
			ref, _ := p.Ref(id)
			name := label(p, id)

			result, err := p.RemoveLocale(id)
			if err != nil {
				return err
			}
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			if result == lokalize.KeysCleared {
				a.say("LocaleCleared", map[string]any{"Locale": name})
				return nil
			}
			if deleteFile {
				if err := os.Remove(ref.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return lokalize.NewResourceError("delete", ref.Path(), err)
				}
			}
			a.say("LocaleRemoved", map[string]any{"Locale": name})
			return nil
		},
	}
	cmd.Flags().BoolVar(&deleteFile, "delete-file", false, "Delete the resource file of a detached locale")
	return cmd
}
