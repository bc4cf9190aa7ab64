package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mmrzaf/sdstats/internal/app"
	"github.com/mmrzaf/sdstats/internal/config"
	"github.com/mmrzaf/sdstats/internal/domain"
	"github.com/mmrzaf/sdstats/internal/infra/repos/blueprints"
	"github.com/mmrzaf/sdstats/internal/infra/repos/runs"
	"github.com/mmrzaf/sdstats/internal/infra/repos/targets"
	"github.com/mmrzaf/sdstats/internal/logging"
	"github.com/mmrzaf/sdstats/internal/registry"
)

var (
	configPath    string
	blueprintsDir string
	targetsDir    string
	runsDB        string
	logLevel      string

	cfg *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sdstats",
		Short:         "Statistically shaped synthetic data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("blueprints-dir") {
				loaded.BlueprintsDir = blueprintsDir
			}
			if flags.Changed("targets-dir") {
				loaded.TargetsDir = targetsDir
			}
			if flags.Changed("runs-db") {
				loaded.RunsDB = runsDB
			}
			if flags.Changed("log-level") {
				loaded.LogLevel = logLevel
			}
			cfg = loaded
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./sdstats.yaml)")
	rootCmd.PersistentFlags().StringVar(&blueprintsDir, "blueprints-dir", "", "Blueprints directory")
	rootCmd.PersistentFlags().StringVar(&targetsDir, "targets-dir", "", "Targets directory")
	rootCmd.PersistentFlags().StringVar(&runsDB, "runs-db", "", "Runs database path or postgres URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level")

	rootCmd.AddCommand(blueprintCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(targetCmd())
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func blueprintRepo() *blueprints.FileRepository {
	return blueprints.NewFileRepository(cfg.BlueprintsDir)
}

func targetRepo() *targets.FileRepository {
	return targets.NewFileRepository(cfg.TargetsDir)
}

func openRuns() (runs.Repository, error) {
	repo := runs.Open(cfg.RunsDB)
	if err := repo.Init(); err != nil {
		return nil, fmt.Errorf("open runs database: %w", err)
	}
	return repo, nil
}

// newService wires the run service; the caller closes the runs repository.
func newService() (*app.RunService, runs.Repository, *logging.Logger, error) {
	runRepo, err := openRuns()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.NewLogger(cfg.LogLevel)
	svc := app.NewRunService(blueprintRepo(), targetRepo(), runRepo, registry.DefaultProviderRegistry(), logger, cfg.BatchSize)
	return svc, runRepo, logger, nil
}

// previewService generates in memory only and never touches run history.
func previewService() *app.RunService {
	return app.NewRunService(blueprintRepo(), targetRepo(), nil, registry.DefaultProviderRegistry(), logging.NewLogger(cfg.LogLevel), cfg.BatchSize)
}

func looksLikePath(arg string) bool {
	return strings.Contains(arg, "/") ||
		strings.HasSuffix(arg, ".yaml") ||
		strings.HasSuffix(arg, ".yml") ||
		strings.HasSuffix(arg, ".json")
}

func loadBlueprint(arg string) (*domain.Blueprint, error) {
	if looksLikePath(arg) {
		return blueprints.LoadFile(arg)
	}
	return blueprintRepo().Get(arg)
}

func loadTarget(arg string) (*domain.TargetConfig, error) {
	if looksLikePath(arg) {
		return targets.LoadFile(arg)
	}
	return targetRepo().Get(arg)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
