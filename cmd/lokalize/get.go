package main

import (
	"fmt"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/spf13/cobra"
)

func newGetCmd(a *app) *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "get <resource> <key>",
		Short: "Show the text of a key and where it is inherited from",
		Long: `The get command prints the text and comment of a key in the selected
locale next to the inherited default. With --trace it reports every locale
of the inheritance chain and how each defines the key.

Example:
  lokalize get i18n/app greeting -l de_AT
  lokalize get i18n/app greeting -l de_AT --trace --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, view, err := a.view(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			key := args[1]

			if trace {
				result := p.Tree().TraceKey(view.Selected(), key)
				if a.jsonOut {
					payload, err := result.ToJSON()
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(a.out, string(payload))
					return err
				}
				for _, layer := range result.Layers {
					value := "-"
					switch {
					case layer.Found:
						value = layer.Value
					case layer.Deleted:
						value = a.statusLabel(lokalize.AlreadyDeleted)
					}
					fmt.Fprintf(a.out, "%-24s %s\n", layer.Name, value)
				}
				if effective, ok := result.Effective(); ok {
					fmt.Fprintf(a.out, "=> %s\n", effective.Value)
				}
				return nil
			}

			row := view.Row(key)
			entry, ok := view.Entry(row)
			if !ok {
				return fmt.Errorf("%w: %s is not known in %s", lokalize.ErrInvalidKey, key, label(p, view.Selected()))
			}
			if a.jsonOut {
				return a.printJSON(map[string]any{
					"key":             entry.Key,
					"text":            entry.Text,
					"comment":         entry.Comment,
					"default_text":    entry.DefaultText,
					"default_comment": entry.DefaultComment,
					"status":          view.Status(key).String(),
				})
			}
			fmt.Fprintf(a.out, "key:       %s\n", entry.Key)
			fmt.Fprintf(a.out, "status:    %s\n", a.statusLabel(view.Status(key)))
			if entry.HasText {
				fmt.Fprintf(a.out, "text:      %s\n", entry.Text)
			}
			if entry.HasComment {
				fmt.Fprintf(a.out, "comment:   %s\n", entry.Comment)
			}
			if entry.HasDefault {
				fmt.Fprintf(a.out, "inherited: %s\n", entry.DefaultText)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "Report every locale of the inheritance chain")
	return cmd
}
