package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmrzaf/sdstats/internal/app"
	"github.com/mmrzaf/sdstats/internal/infra/repos/targets"
	"github.com/mmrzaf/sdstats/internal/validation"
)

func targetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "target",
		Short: "Manage targets",
	}

	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := targetRepo().List()
			if err != nil {
				return err
			}
			list = targets.RedactTargets(list)
			if format == "json" {
				return printJSON(list)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tDSN")
			for _, t := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Name, t.Kind, truncate(t.DSN, 50))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <id|path>",
		Short: "Show target details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := loadTarget(args[0])
			if err != nil {
				return err
			}
			return printYAML(targets.RedactTarget(target))
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <id|path>",
		Short: "Validate a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := loadTarget(args[0])
			if err != nil {
				return err
			}
			if err := validation.NewValidator(nil).ValidateTarget(target); err != nil {
				color.Red("Validation failed: %v", err)
				return err
			}
			color.Green("Target '%s' is valid", target.Name)
			return nil
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check <id|path>",
		Short: "Connect to a target and probe its capabilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := loadTarget(args[0])
			if err != nil {
				return err
			}

			s := newSpinner(fmt.Sprintf(" checking %s", target.Name))
			s.Start()
			check, err := app.CheckTarget(target)
			s.Stop()

			if format == "json" && check != nil {
				if perr := printJSON(check); perr != nil {
					return perr
				}
				return err
			}
			if err != nil {
				color.Red("Target '%s' check failed: %v", target.Name, err)
				return err
			}

			color.Green("Target '%s' is reachable (%dms)", target.Name, check.LatencyMS)
			if check.ServerVer != "" {
				fmt.Printf("Server version: %s\n", check.ServerVer)
			}
			fmt.Printf("Create: %s  Insert: %s  Truncate: %s\n",
				yesNo(check.Capabilities.CanCreate),
				yesNo(check.Capabilities.CanInsert),
				yesNo(check.Capabilities.CanTruncate))
			return nil
		},
	}
	checkCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	cmd.AddCommand(listCmd, showCmd, validateCmd, checkCmd)
	return cmd
}

func yesNo(ok bool) string {
	if ok {
		return color.GreenString("yes")
	}
	return color.RedString("no")
}
