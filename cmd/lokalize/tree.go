package main

import (
	"fmt"
	"strings"

	lokalize "github.com/goliatone/go-lokalize"
	"github.com/spf13/cobra"
)

type treeNode struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	File     string `json:"file"`
	Depth    int    `json:"depth"`
	Master   bool   `json:"master"`
	Inherits string `json:"inherits,omitempty"`
	Keys     int    `json:"keys"`
	Coverage *int   `json:"coverage,omitempty"`
}

func newTreeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tree <resource>",
		Short: "Show the locale hierarchy",
		Long: `The tree command lists every locale of the project with the locale
it inherits from, its number of keys and how much of the inherited keys
it translates.

Example:
  lokalize tree i18n/app
  lokalize tree i18n/app --master en --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, view, err := a.view(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tree := p.Tree()

			var nodes []treeNode
			tree.Walk(func(id lokalize.NodeID, depth int) bool {
				ref, _ := p.Ref(id)
				store, _ := tree.Store(id)
				node := treeNode{
					Code:   label(p, id),
					Name:   tree.DisplayName(id),
					File:   ref.FileName(),
					Depth:  depth,
					Master: tree.IsMaster(id),
					Keys:   store.Len(),
				}
				if parent := tree.ResolveParent(id); parent != lokalize.NoNode {
					node.Inherits = label(p, parent)
				}
				if err := view.Select(id); err == nil {
					if percent, ok := view.Coverage(); ok {
						node.Coverage = &percent
					}
				}
				nodes = append(nodes, node)
				return true
			})

			if a.jsonOut {
				return a.printJSON(nodes)
			}
			for _, node := range nodes {
				var details []string
				details = append(details, a.catalog.Plural("KeysTotal", node.Keys, nil))
				if node.Master {
					details = append(details, a.catalog.Localize("Master", nil))
				}
				if node.Inherits != "" {
					details = append(details, a.catalog.Localize("InheritsFrom", map[string]any{"Locale": node.Inherits}))
				}
				if node.Coverage != nil {
					details = append(details, a.catalog.Localize("Coverage", map[string]any{"Percent": *node.Coverage}))
				}
				fmt.Fprintf(a.out, "%s%s (%s): %s\n", strings.Repeat("  ", node.Depth), node.Name, node.Code, strings.Join(details, ", "))
			}
			return nil
		},
	}
}
