package main

import (
	"fmt"
	"strings"

	"github.com/hodaniel/graphwalker"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of graphwalker",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "graphwalker version %s\n", strings.TrimSpace(graphwalker.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
