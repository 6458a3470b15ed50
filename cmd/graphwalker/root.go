package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hodaniel/graphwalker/internal/cli"
	"github.com/hodaniel/graphwalker/internal/logging"
	"github.com/spf13/cobra"
)

// logger is configured from the persistent flags before any command runs.
var logger *slog.Logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:   "graphwalker",
	Short: "GraphWalker generates test paths from finite state machine models",
	Long: `GraphWalker walks a model of the system under test with a strategy of generators
(a_star, random) and stop conditions, printing the edges to execute.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		format, _ := cmd.Flags().GetString("log-format")
		l, err := cli.NewLogger(os.Stderr, level, format)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
}
