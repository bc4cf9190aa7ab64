package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mmrzaf/sdstats/internal/domain"
)

func newSpinner(suffix string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = suffix
	return s
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage runs",
	}

	var (
		blueprintArg string
		targetArg    string
		targetDSN    string
		targetKind   string
		table        string
		database     string
		mode         string
		seed         int64
		iterations   int
		dryRun       bool
	)

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Generate records into a target",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, runRepo, logger, err := newService()
			if err != nil {
				return err
			}
			defer runRepo.Close()
			defer logger.Sync()

			req := &domain.RunRequest{Table: table, Database: database, Mode: mode}
			if req.Mode == "" {
				req.Mode = cfg.DefaultMode
			}

			if blueprintArg == "" {
				return fmt.Errorf("--blueprint is required")
			}
			if looksLikePath(blueprintArg) {
				bp, err := loadBlueprint(blueprintArg)
				if err != nil {
					return err
				}
				req.Blueprint = bp
			} else {
				req.BlueprintID = blueprintArg
			}

			switch {
			case targetDSN != "":
				if targetKind == "" {
					return fmt.Errorf("--target-kind required when using --target-dsn")
				}
				req.Target = &domain.TargetConfig{Name: "inline-target", Kind: targetKind, DSN: targetDSN}
			case targetArg != "" && looksLikePath(targetArg):
				t, err := loadTarget(targetArg)
				if err != nil {
					return err
				}
				req.Target = t
			case targetArg != "":
				req.TargetID = targetArg
			default:
				return fmt.Errorf("either --target or --target-dsn required")
			}

			if cmd.Flags().Changed("seed") {
				req.Seed = &seed
			}
			if cmd.Flags().Changed("iterations") {
				req.Iterations = &iterations
			}

			if dryRun {
				plan, err := svc.PlanRun(req)
				if err != nil {
					return err
				}
				return printYAML(map[string]interface{}{
					"blueprint":   plan.Blueprint.ID,
					"target":      plan.Target.Name,
					"kind":        plan.Target.Kind,
					"table":       plan.Table,
					"mode":        plan.Mode,
					"seed":        plan.Seed,
					"iterations":  plan.Iterations,
					"config_hash": plan.ConfigHash,
					"methods":     plan.Methods,
				})
			}

			s := newSpinner(" generating")
			s.Start()
			run, err := svc.StartRun(req)
			s.Stop()
			if err != nil {
				if run != nil {
					color.Red("Run %s failed: %v", run.ID, err)
				}
				return err
			}

			color.Green("Run %s completed", run.ID)
			var stats domain.RunStats
			if err := json.Unmarshal(run.Stats, &stats); err == nil {
				fmt.Printf("Table: %s\n", run.Table)
				fmt.Printf("Seed: %d\n", run.Seed)
				fmt.Printf("Records: %d in %d batches\n", stats.RecordsGenerated, stats.Batches)
				fmt.Printf("Duration: %.2fs\n", stats.DurationSeconds)
			}
			return nil
		},
	}

	startCmd.Flags().StringVarP(&blueprintArg, "blueprint", "b", "", "Blueprint ID or file path")
	startCmd.Flags().StringVarP(&targetArg, "target", "t", "", "Target ID or file path")
	startCmd.Flags().StringVar(&targetDSN, "target-dsn", "", "Inline target DSN")
	startCmd.Flags().StringVar(&targetKind, "target-kind", "", "Target kind (required with --target-dsn)")
	startCmd.Flags().StringVar(&table, "table", "", "Destination table")
	startCmd.Flags().StringVar(&database, "database", "", "Database override (postgres name or redis index)")
	startCmd.Flags().StringVar(&mode, "mode", "", "Table mode (create|truncate|append)")
	startCmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG")
	startCmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "Number of records")
	startCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Resolve and print the plan without writing")

	var (
		limit  int
		status string
		format string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepo, err := openRuns()
			if err != nil {
				return err
			}
			defer runRepo.Close()

			list, err := runRepo.List(limit, status)
			if err != nil {
				return err
			}
			if format == "json" {
				return printJSON(list)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBLUEPRINT\tTARGET\tTABLE\tSTATUS\tSTARTED")
			for _, r := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					shortID(r.ID), r.BlueprintName, r.TargetName, r.Table, statusText(r.Status), r.StartedAt.Local().Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 20, "Limit results")
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&format, "format", "table", "Output format (table|json)")

	showCmd := &cobra.Command{
		Use:   "show <run_id>",
		Short: "Show run details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepo, err := openRuns()
			if err != nil {
				return err
			}
			defer runRepo.Close()

			run, err := runRepo.Get(args[0])
			if err != nil {
				return err
			}
			return printJSON(run)
		},
	}

	cmd.AddCommand(startCmd, listCmd, showCmd)
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusText(status domain.RunStatus) string {
	switch status {
	case domain.RunStatusSuccess:
		return color.GreenString(string(status))
	case domain.RunStatusFailed:
		return color.RedString(string(status))
	default:
		return color.YellowString(string(status))
	}
}
