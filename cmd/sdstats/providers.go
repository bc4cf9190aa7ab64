package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmrzaf/sdstats/internal/registry"
)

func providersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect provider methods",
	}

	var format string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered provider methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := registry.DefaultProviderRegistry().List()
			if format == "json" {
				return printJSON(names)
			}
			for _, name := range names {
				fmt.Println(name)
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	cmd.AddCommand(listCmd)
	return cmd
}
