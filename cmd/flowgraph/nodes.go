package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/agentstation/flowgraph/builtin"
	"github.com/agentstation/flowgraph/config"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List available node types",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := builtin.RegisterAll(config.NewLoader())
		if err != nil {
			return err
		}

		types := make([]string, 0, len(registry.All()))
		for t := range registry.All() {
			types = append(types, t)
		}
		sort.Strings(types)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TYPE\tCATEGORY\tDESCRIPTION")
		for _, t := range types {
			b, _ := registry.Get(t)
			meta := b.Metadata()
			fmt.Fprintf(w, "%s\t%s\t%s\n", meta.Type, meta.Category, meta.Description)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}
