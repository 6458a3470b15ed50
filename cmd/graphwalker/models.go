package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hodaniel/graphwalker/internal/cli"
	"github.com/hodaniel/graphwalker/internal/validator"
	"github.com/hodaniel/graphwalker/pkg/ports"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage the model catalog used by serve and mcp",
	Long:  `List, import, inspect and remove models stored in a directory or in Redis.`,
}

var modelsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored models",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore(cmd)
		if err != nil {
			return err
		}
		names, err := store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing models: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "No models found.")
			return nil
		}
		fmt.Fprintln(out, "Models:")
		for _, n := range names {
			fmt.Fprintln(out, "- "+n)
		}
		return nil
	},
}

var modelsImportCmd = &cobra.Command{
	Use:   "import <model>...",
	Short: "Validate and store one or more models (files or loam directories)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore(cmd)
		if err != nil {
			return err
		}

		var errs []error
		for _, path := range args {
			if err := importModel(cmd, store, path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error importing '%s': %v\n", path, err)
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	},
}

func importModel(cmd *cobra.Command, store ports.ModelStore, path string) error {
	loader, err := cli.OpenLoader(path)
	if err != nil {
		return err
	}
	model, err := loader.LoadModel(cmd.Context())
	if err != nil {
		return err
	}
	if err := validator.Validate(model); err != nil {
		var verr *validator.ValidationError
		if !errors.As(err, &verr) || verr.HasErrors() {
			return err
		}
	}
	if err := store.Save(cmd.Context(), model); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported model '%s'\n", model.Name)
	return nil
}

var modelsInspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Print a stored model as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore(cmd)
		if err != nil {
			return err
		}
		model, err := store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading model '%s': %w", args[0], err)
		}

		// Pretty print JSON
		data, err := json.MarshalIndent(model, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var modelsRmCmd = &cobra.Command{
	Use:   "rm <name>...",
	Short: "Remove one or more models",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := getStore(cmd)
		if err != nil {
			return err
		}

		var errs []error
		for _, name := range args {
			if err := store.Delete(cmd.Context(), name); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error removing '%s': %v\n", name, err)
				errs = append(errs, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed model '%s'\n", name)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.PersistentFlags().String("store", "", "Model catalog: a directory (default .graphwalker/models) or redis://host:port/db")
	modelsCmd.AddCommand(modelsLsCmd)
	modelsCmd.AddCommand(modelsImportCmd)
	modelsCmd.AddCommand(modelsInspectCmd)
	modelsCmd.AddCommand(modelsRmCmd)
}

func getStore(cmd *cobra.Command) (ports.ModelStore, error) {
	target, _ := cmd.Flags().GetString("store")
	return cli.OpenStore(target)
}
