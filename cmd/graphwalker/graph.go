package main

import (
	"fmt"

	"github.com/hodaniel/graphwalker/internal/cli"
	"github.com/hodaniel/graphwalker/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <model>",
	Short: "Export the model as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the model. Use "generate --graph" to overlay a walk.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := cli.OpenLoader(args[0])
		if err != nil {
			return err
		}
		model, err := loader.LoadModel(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(model, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
