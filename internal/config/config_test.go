package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

// unsetEnv clears key for the test; godotenv writes through os.Setenv, so
// t.Setenv alone would not restore it.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	_ = os.Unsetenv(key)
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, ".env"), []byte("SDSTATS_RUNS_DB=postgres://u:p@localhost:5432/sdstats?sslmode=disable\nSDSTATS_LOG_LEVEL=debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, d)
	unsetEnv(t, "SDSTATS_RUNS_DB")
	unsetEnv(t, "SDSTATS_LOG_LEVEL")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RunsDB != "postgres://u:p@localhost:5432/sdstats?sslmode=disable" {
		t.Fatalf("expected SDSTATS_RUNS_DB from .env, got %q", cfg.RunsDB)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected SDSTATS_LOG_LEVEL from .env, got %q", cfg.LogLevel)
	}
	if cfg.BatchSize != 1000 || cfg.DefaultMode != "create" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	d := t.TempDir()
	chdir(t, d)
	if err := os.WriteFile(filepath.Join(d, "sdstats.yaml"), []byte("batch_size: 250\ndefault_mode: truncate\nblueprints_dir: ./bp\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SDSTATS_BATCH_SIZE", "50")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BatchSize != 50 {
		t.Fatalf("expected env to override file, got %d", cfg.BatchSize)
	}
	if cfg.DefaultMode != "truncate" || cfg.BlueprintsDir != "./bp" {
		t.Fatalf("expected file values, got %+v", cfg)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SDSTATS_DEFAULT_MODE", "create_if_missing")
	if _, err := Load(""); err == nil {
		t.Fatal("expected invalid default_mode error")
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	chdir(t, t.TempDir())
	if _, err := Load("nope.yaml"); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
