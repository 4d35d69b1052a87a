package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version information set by ldflags.
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "flowgraph",
	Short: "A dataflow graph execution engine",
	Long: `Flowgraph executes dataflow graphs: DAGs of nodes exchanging values
through a shared typed store, with parallel scheduling, conditional
pruning via control signals, and hierarchical composition.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("workers", runtime.NumCPU(), "Worker count for graph execution")

	// Flags layer over FLOWGRAPH_LOG_LEVEL / FLOWGRAPH_WORKERS.
	viper.SetEnvPrefix("flowgraph")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
