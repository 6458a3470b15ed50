package main

import (
	"errors"
	"fmt"

	"github.com/hodaniel/graphwalker/internal/cli"
	"github.com/hodaniel/graphwalker/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <model>",
	Short: "Check the model for consistency",
	Long:  `Reports broken edges, a missing start vertex, weight sums above 1, unreachable vertices and dead ends.`,
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

		if err := validator.Validate(model); err != nil {
			var verr *validator.ValidationError
			if errors.As(err, &verr) && !verr.HasErrors() {
				fmt.Fprintln(cmd.OutOrStdout(), err)
				fmt.Fprintln(cmd.OutOrStdout(), "Model is valid (with warnings).")
				return nil
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Model is valid!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
