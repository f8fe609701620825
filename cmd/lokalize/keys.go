package main

import (
	"fmt"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/spf13/cobra"
)

type keyRow struct {
	Key      string `json:"key"`
	Status   string `json:"status"`
	Modified bool   `json:"modified,omitempty"`
	Text     string `json:"text,omitempty"`

	status lokalize.KeyStatus
}

func newKeysCmd(a *app) *cobra.Command {
	var (
		status string
		filter string
	)
	cmd := &cobra.Command{
		Use:   "keys <resource>",
		Short: "List the keys of a locale with their status",
		Long: `The keys command lists the keys of the selected locale together with
the keys it inherits. Each key is marked as present everywhere, only in
this locale, missing (only inherited) or deleted.

Filters are boolean expressions over the variables key, text, comment,
parent_text, parent_comment, status, modified, here, upstream and locale.

Example:
  lokalize keys i18n/app -l de
  lokalize keys i18n/app -l de --status only-in-parent
  lokalize keys i18n/app -l de --filter 'text == parent_text'
  lokalize keys i18n/app -l de --engine cel --filter 'placeholdersMatch(text, parent_text) == false'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, view, err := a.view(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var wanted *lokalize.KeyStatus
			if status != "" {
				parsed, ok := lokalize.ParseKeyStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				wanted = &parsed
			}

			keys := view.Keys()
			if filter != "" {
				keys, err = view.Filter(filter)
				if err != nil {
					return err
				}
			}

			store, _ := p.Tree().Store(view.Selected())
			rows := make([]keyRow, 0, len(keys))
			for _, key := range keys {
				keyStatus := view.Status(key)
				if wanted != nil && keyStatus != *wanted {
					continue
				}
				text, _ := store.Text(key)
				rows = append(rows, keyRow{
					Key:      key,
					Status:   keyStatus.String(),
					Modified: view.IsModified(key),
					Text:     text,
					status:   keyStatus,
				})
			}

			if a.jsonOut {
				return a.printJSON(map[string]any{
					"locale": label(p, view.Selected()),
					"keys":   rows,
					"counts": view.Counts(),
				})
			}
			for _, row := range rows {
				fmt.Fprintf(a.out, "%-12s %s\n", a.statusLabel(row.status), row.Key)
			}
			summary := a.catalog.Plural("KeysTotal", len(rows), nil)
			if percent, ok := view.Coverage(); ok {
				summary += ", " + a.catalog.Localize("Coverage", map[string]any{"Percent": percent})
			}
			fmt.Fprintln(a.out, summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only list keys with this status (everywhere, only-here, only-in-parent, deleted)")
	cmd.Flags().StringVar(&filter, "filter", "", "Only list keys matching this expression")
	return cmd
}
