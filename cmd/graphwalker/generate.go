package main

import (
	"context"
	"os"

	"github.com/hodaniel/graphwalker/internal/cli"
	"github.com/hodaniel/graphwalker/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <model>",
	Short: "Generate a test path offline",
	Long: `Walks a model and prints every step.

The model is a YAML/JSON file, or a directory of vertex documents read with loam.
The strategy is a strategy file or an expression such as
  "a_star(reached_vertex(v_home)) random(edge_coverage(100) or test_length(200))"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategyValue, _ := cmd.Flags().GetString("strategy")
		strict, _ := cmd.Flags().GetBool("strict")
		jsonMode, _ := cmd.Flags().GetBool("json")
		report, _ := cmd.Flags().GetBool("report")
		withGraph, _ := cmd.Flags().GetBool("graph")
		quiet, _ := cmd.Flags().GetBool("quiet")
		bindings, _ := cmd.Flags().GetString("exec")

		opts := cli.GenerateOptions{
			ModelPath: args[0],
			Strategy:  strategyValue,
			Strict:    strict,
			JSON:      jsonMode,
			Report:    report,
			Graph:     withGraph,
			Bindings:  bindings,
			Color:     !jsonMode && cli.IsTerminal(os.Stdout),
			Output:    os.Stdout,
			Logger:    logger,
		}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			opts.Seed = &seed
		}

		if opts.Color && !quiet {
			tui.PrintBanner(os.Stdout)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()
		return cli.RunGenerate(ctx, opts)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringP("strategy", "s", "", "Strategy file or expression (default: random until full edge coverage)")
	generateCmd.Flags().Uint64("seed", 0, "Seed for reproducible random choices")
	generateCmd.Flags().Bool("strict", false, "Fail instead of stopping quietly when the strategy is exhausted")
	generateCmd.Flags().Bool("json", false, "Print steps as NDJSON")
	generateCmd.Flags().Bool("report", false, "Print a coverage report after the walk")
	generateCmd.Flags().Bool("graph", false, "Print a Mermaid graph of the walk after it ends")
	generateCmd.Flags().String("exec", "", "Bindings file mapping edges and vertices to commands run for each step")
	generateCmd.Flags().BoolP("quiet", "q", false, "Do not print the banner")
}
