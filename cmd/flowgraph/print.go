package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/flowgraph/builtin"
	"github.com/agentstation/flowgraph/config"
)

var printCmd = &cobra.Command{
	Use:   "print <graph.json>",
	Short: "Dump a graph's reachability tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := config.NewLoader()
		if _, err := builtin.RegisterAll(loader); err != nil {
			return err
		}
		graph, err := loader.LoadFile(args[0])
		if err != nil {
			return err
		}
		return graph.Print(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
}
