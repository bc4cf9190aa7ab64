package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mmrzaf/sdstats/internal/app"
	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/infra/targets/file"
)

func generateCmd() *cobra.Command {
	var (
		iterations int
		seed       int64
		format     string
		lazy       bool
	)

	cmd := &cobra.Command{
		Use:   "generate <blueprint id|path>",
		Short: "Generate records to stdout without a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bp, err := loadBlueprint(args[0])
			if err != nil {
				return err
			}

			svc := previewService()

			var seedPtr *int64
			if cmd.Flags().Changed("seed") {
				seedPtr = &seed
			}
			n := iterations
			if !cmd.Flags().Changed("iterations") {
				n = bp.Iterations
				if n <= 0 {
					n = app.DefaultIterations
				}
			}

			if lazy {
				return streamRecords(svc, bp, n, seedPtr)
			}

			records, used, err := svc.Preview(bp, n, seedPtr)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "seed: %d\n", used)

			switch format {
			case "json":
				return printJSON(records)
			case "csv":
				return writeCSV(records)
			case "table":
				return writeTable(records)
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}

	cmd.Flags().IntVarP(&iterations, "iterations", "n", 10, "Number of records")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "Seed for RNG")
	cmd.Flags().StringVar(&format, "format", "table", "Output format (table|json|csv)")
	cmd.Flags().BoolVar(&lazy, "lazy", false, "Stream records as JSON lines")
	return cmd
}

func streamRecords(svc *app.RunService, bp *domain.Blueprint, n int, seed *int64) error {
	used := app.ResolveSeed(seed, bp.Seed)
	compiled, err := svc.Compile(bp, used)
	if err != nil {
		return err
	}
	records, err := compiled.StatsSchema().Iterate(n, bp.ExcludeFromUnnesting)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "seed: %d\n", used)

	enc := json.NewEncoder(os.Stdout)
	for rec, err := range records {
		if err != nil {
			return err
		}
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func recordKeys(records []*domain.Record) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, k := range rec.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func writeCSV(records []*domain.Record) error {
	keys := recordKeys(records)
	w := csv.NewWriter(os.Stdout)
	if err := w.Write(keys); err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.Write(file.CSVRow(rec.Values(keys))); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTable(records []*domain.Record) error {
	keys := recordKeys(records)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(keys, "\t")))
	for _, rec := range records {
		fmt.Fprintln(w, strings.Join(file.CSVRow(rec.Values(keys)), "\t"))
	}
	return w.Flush()
}
