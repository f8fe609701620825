package main

import (
	"fmt"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/spf13/cobra"
)

func validKey(key string) error {
	if key == "" || lokalize.IsCommentKey(key) {
		return fmt.Errorf("%w: %q", lokalize.ErrInvalidKey, key)
	}
	return nil
}

func newSetCmd(a *app) *cobra.Command {
	var comment string
	cmd := &cobra.Command{
		Use:   "set <resource> <key> <text>",
		Short: "Write the text of a key in a locale",
		Long: `The set command writes a text, and optionally a comment, into the
selected locale and saves the project. A key missing from the locale is
added.

Example:
  lokalize set i18n/app greeting "Hallo" -l de
  lokalize set i18n/app greeting "Servus" -l de_AT --comment "informal"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, text := args[1], args[2]
			if err := validKey(key); err != nil {
				return err
			}
			p, view, err := a.view(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			store, _ := p.Tree().Store(view.Selected())
			existed := store.ContainsKey(key)

			changed := view.SetText(key, text)
			if cmd.Flags().Changed("comment") && view.SetComment(key, comment) {
				changed = true
			}
			data := map[string]any{"Key": key, "Locale": label(p, view.Selected())}
			if !changed {
				a.say("KeyUnchanged", data)
				return nil
			}
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			if existed {
				a.say("KeyUpdated", data)
			} else {
				a.say("KeyAdded", data)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&comment, "comment", "", "Comment stored with the key")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <resource> <key>",
		Short: "Remove a key from a locale",
		Long: `The remove command deletes a key, and its comment, from the selected
locale and saves the project. Locales inheriting the key are not touched.

Example:
  lokalize remove i18n/app obsolete.title -l de`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[1]
			if err := validKey(key); err != nil {
				return err
			}
			p, view, err := a.view(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !view.RemoveKey(key) {
				return fmt.Errorf("%w: %s is not defined in %s", lokalize.ErrInvalidKey, key, label(p, view.Selected()))
			}
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			a.say("KeyRemoved", map[string]any{"Key": key, "Locale": label(p, view.Selected())})
			return nil
		},
	}
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <resource> <old-key> <new-key>",
		Short: "Rename a key within a locale",
		Long: `The rename command moves the text and comment of a key to a new key in
the selected locale and saves the project. The new key must not be known
to the locale yet.

Example:
  lokalize rename i18n/app menu.quit menu.exit -l de`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			oldKey, newKey := args[1], args[2]
			if err := validKey(newKey); err != nil {
				return err
			}
			p, view, err := a.view(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			store, _ := p.Tree().Store(view.Selected())
			locale := label(p, view.Selected())
			if !store.ContainsKey(oldKey) {
				return fmt.Errorf("%w: %s is not defined in %s", lokalize.ErrInvalidKey, oldKey, locale)
			}
			if view.RenameKey(oldKey, newKey) < 0 {
				return fmt.Errorf("%w: %s already exists in %s", lokalize.ErrDuplicateKey, newKey, locale)
			}
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			a.say("KeyRenamed", map[string]any{"Old": oldKey, "New": newKey, "Locale": locale})
			return nil
		},
	}
}

func newMissingCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "missing <resource>",
		Short: "List the inherited keys a locale does not translate",
		Long: `The missing command walks the keys the selected locale only inherits
and prints each with the inherited text.

Example:
  lokalize missing i18n/app -l fr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, view, err := a.view(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			type missingKey struct {
				Key       string `json:"key"`
				Inherited string `json:"inherited"`
			}
			missing := []missingKey{}
			first := view.NextNotHere(-1)
			for row := first; row >= 0; {
				entry, _ := view.Entry(row)
				missing = append(missing, missingKey{Key: entry.Key, Inherited: entry.DefaultText})
				row = view.NextNotHere(row)
				if row == first {
					break
				}
			}

			if a.jsonOut {
				return a.printJSON(missing)
			}
			if len(missing) == 0 {
				a.say("NothingMissing", map[string]any{"Locale": label(p, view.Selected())})
				return nil
			}
			for _, m := range missing {
				fmt.Fprintf(a.out, "%s = %s\n", m.Key, m.Inherited)
			}
			fmt.Fprintln(a.out, a.catalog.Plural("KeysTotal", len(missing), nil))
			return nil
		},
	}
}
