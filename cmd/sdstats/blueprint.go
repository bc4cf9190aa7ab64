package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmrzaf/sdstats/internal/registry"
	"github.com/mmrzaf/sdstats/internal/validation"
)

func blueprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blueprint",
		Short: "Manage blueprints",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List blueprints",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := blueprintRepo().List()
			if err != nil {
				return err
			}
			if format == "json" {
				return printJSON(list)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tVERSION\tVARIABLES\tITERATIONS")
			for _, bp := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", bp.ID, bp.Name, bp.Version, len(bp.Variables), bp.Iterations)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <id|path>",
		Short: "Show blueprint details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := loadBlueprint(args[0])
			if err != nil {
				return err
			}
			return printYAML(bp)
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a blueprint against the provider registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := loadBlueprint(args[0])
			if err != nil {
				return err
			}
			validator := validation.NewValidator(registry.DefaultProviderRegistry())
			if err := validator.ValidateBlueprint(bp); err != nil {
				color.Red("Validation failed: %v", err)
				return err
			}
			color.Green("Blueprint '%s' is valid", bp.Name)
			return nil
		},
	}

	cmd.AddCommand(listCmd, showCmd, validateCmd)
	return cmd
}
