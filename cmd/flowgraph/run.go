package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/flowgraph"
	"github.com/agentstation/flowgraph/builtin"
	"github.com/agentstation/flowgraph/config"
	"github.com/agentstation/flowgraph/logger"
)

var (
	runProfile bool
	runInputs  []string
	runOutputs []string
)

var runCmd = &cobra.Command{
	Use:   "run <graph.json>",
	Short: "Execute a graph from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(logger.Config{
			Level:   viper.GetString("log-level"),
			Output:  "stderr",
			Console: true,
		})
		defer log.Close()

		loader := config.NewLoader()
		if _, err := builtin.RegisterAll(loader); err != nil {
			return err
		}

		graph, err := loader.LoadFile(args[0])
		if err != nil {
			return err
		}

		ws := flowgraph.NewStore()
		for _, kv := range runInputs {
			key, value, err := parseInput(kv)
			if err != nil {
				return err
			}
			ws.Set(key, value)
		}

		opts := []flowgraph.RunOption{
			flowgraph.WithWorkers(viper.GetInt("workers")),
			flowgraph.WithLogger(log.Logger),
		}
		if runProfile {
			opts = append(opts, flowgraph.WithProfiling())
		}

		if err := graph.Run(cmd.Context(), ws, opts...); err != nil {
			return err
		}

		for _, key := range runOutputs {
			v, err := ws.GetAny(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s = %v\n", key, v)
		}
		return nil
	},
}

// parseInput splits key=value and keeps integer-looking values as ints so
// numeric router inputs work from the command line.
func parseInput(kv string) (string, any, error) {
	key, raw, ok := strings.Cut(kv, "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid --input %q, want key=value", kv)
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return key, n, nil
	}
	return key, raw, nil
}

func init() {
	runCmd.Flags().BoolVar(&runProfile, "profile", false, "Collect and print per-node timings")
	runCmd.Flags().StringArrayVar(&runInputs, "input", nil, "Seed store entry, key=value (repeatable)")
	runCmd.Flags().StringArrayVar(&runOutputs, "output", nil, "Store key to print after the run (repeatable)")
	rootCmd.AddCommand(runCmd)
}
